package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/matchbook/clob/internal/api/logger"
	"github.com/matchbook/clob/internal/api/models"
	"github.com/matchbook/clob/internal/matching"
	"github.com/matchbook/clob/internal/types"
)

// convertDepthToDTO converts engine depth levels to DTOs
func convertDepthToDTO(levels []matching.DepthLevel) []models.DepthLevelDTO {
	dtos := make([]models.DepthLevelDTO, len(levels))
	for i, level := range levels {
		dtos[i] = models.DepthLevelDTO{
			Price:      level.Price,
			Quantity:   level.Quantity,
			Total:      level.Total,
			OrderCount: level.Orders,
		}
	}
	return dtos
}

// parseDepth reads the depth query parameter, clamped to maxDepth
func parseDepth(r *http.Request, defaultDepth, maxDepth int) int {
	depth := defaultDepth
	if depthStr := r.URL.Query().Get("depth"); depthStr != "" {
		if parsed, err := strconv.Atoi(depthStr); err == nil && parsed > 0 {
			depth = parsed
		}
	}
	if depth > maxDepth {
		depth = maxDepth
	}
	return depth
}

// GetOrderBookHandler returns the aggregated depth of both sides
func (eh *EngineHolder) GetOrderBookHandler(w http.ResponseWriter, r *http.Request) {
	depth := parseDepth(r, matching.DefaultDepthLevels, 50)

	bids := eh.Engine.Depth(types.Buy, depth)
	asks := eh.Engine.Depth(types.Sell, depth)

	logger.Debug("Order book snapshot retrieved", map[string]interface{}{
		"bid_levels": len(bids),
		"ask_levels": len(asks),
	})

	writeJSON(w, http.StatusOK, models.OrderBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbol: eh.Engine.Symbol(),
		Bids:   convertDepthToDTO(bids),
		Asks:   convertDepthToDTO(asks),
	})
}

// GetQuoteHandler returns the best bid, best ask and spread
func (eh *EngineHolder) GetQuoteHandler(w http.ResponseWriter, r *http.Request) {
	quote := eh.Engine.Quote()

	writeJSON(w, http.StatusOK, models.QuoteResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbol:  eh.Engine.Symbol(),
		BestBid: quote.BestBid,
		BestAsk: quote.BestAsk,
		Spread:  quote.Spread,
	})
}
