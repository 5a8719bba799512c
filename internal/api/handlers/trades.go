package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/matchbook/clob/internal/api/logger"
	"github.com/matchbook/clob/internal/api/models"
)

// GetTradesHandler handles retrieving recent trades, most recent first
func (eh *EngineHolder) GetTradesHandler(w http.ResponseWriter, r *http.Request) {
	// Default limit: 30 (matches the trade ledger view), max: 1000
	limit := 30
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	trades := eh.Engine.RecentTrades(limit)
	dtos := convertTradesToDTO(trades)

	logger.Debug("Retrieved trades", map[string]interface{}{
		"count": len(dtos),
		"limit": limit,
	})

	writeJSON(w, http.StatusOK, models.GetTradesResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Trades: dtos,
		Count:  len(dtos),
	})
}
