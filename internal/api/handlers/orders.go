package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/internal/api/logger"
	"github.com/matchbook/clob/internal/api/models"
	"github.com/matchbook/clob/internal/matching"
	"github.com/matchbook/clob/internal/types"
)

// EngineHolder wraps the matching engine for dependency injection
type EngineHolder struct {
	Engine *matching.Engine
}

// NewEngineHolder creates a new engine holder
func NewEngineHolder(engine *matching.Engine) *EngineHolder {
	return &EngineHolder{Engine: engine}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeErrorResponse writes an error response
func writeErrorResponse(w http.ResponseWriter, httpErr *models.HTTPError) {
	logger.Warn("Request failed", map[string]interface{}{
		"error_code": httpErr.Error.Code,
		"status":     httpErr.StatusCode,
	})

	writeJSON(w, httpErr.StatusCode, models.BaseResponse{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Message:   httpErr.Error.Message,
		Error:     &httpErr.Error,
	})
}

// convertKind converts string to OrderKind
func convertKind(kind string) types.OrderKind {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "market":
		return types.Market
	case "limit":
		return types.Limit
	case "ioc":
		return types.IOC
	case "fok":
		return types.FOK
	default:
		return types.NoKind
	}
}

// convertSide converts string to Side
func convertSide(side string) types.Side {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "buy":
		return types.Buy
	case "sell":
		return types.Sell
	default:
		return types.NoSide
	}
}

// convertTradesToDTO converts engine trades to DTO trades
func convertTradesToDTO(trades []*types.Trade) []models.TradeDTO {
	dtos := make([]models.TradeDTO, len(trades))
	for i, trade := range trades {
		dtos[i] = models.TradeDTO{
			TradeID:       trade.ID,
			Symbol:        trade.Symbol,
			Price:         trade.Price,
			Quantity:      trade.Quantity,
			AggressorSide: trade.AggressorSide.String(),
			MakerOrderID:  trade.MakerOrderID,
			TakerOrderID:  trade.TakerOrderID,
			Timestamp:     trade.Timestamp,
		}
	}
	return dtos
}

// mapEngineError maps matching validation errors to HTTP errors
func mapEngineError(err error, req models.SubmitOrderRequest) *models.HTTPError {
	switch {
	case errors.Is(err, matching.ErrQuantityNotPositive):
		return models.ErrInvalidQuantityError(req.Quantity.String())
	case errors.Is(err, matching.ErrPriceRequired):
		return models.ErrMissingPriceError(strings.ToLower(req.OrderKind))
	case errors.Is(err, matching.ErrInvalidSide):
		return models.ErrInvalidSideError(req.Side)
	case errors.Is(err, matching.ErrInvalidKind):
		return models.ErrInvalidOrderKindError(req.OrderKind)
	default:
		return models.ErrInternal(err.Error())
	}
}

// outcomeOf names the submission result for the response body
func outcomeOf(kind types.OrderKind, requested decimal.Decimal, trades []models.TradeDTO) string {
	filled := decimal.Zero
	for _, trade := range trades {
		filled = filled.Add(trade.Quantity)
	}

	switch {
	case filled.Equal(requested):
		return "filled"
	case len(trades) == 0 && kind == types.FOK:
		return "killed"
	case kind == types.Limit && len(trades) == 0:
		return "rested"
	case kind == types.Limit:
		return "partial"
	case len(trades) == 0:
		return "discarded"
	default:
		return "partial"
	}
}

// SubmitOrderHandler handles single order submission
func (eh *EngineHolder) SubmitOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	if httpErr := req.Validate(); httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	incoming := types.NewIncomingOrder(
		convertKind(req.OrderKind),
		convertSide(req.Side),
		req.Price,
		req.Quantity,
	)

	trades, err := eh.Engine.Submit(incoming)
	if err != nil {
		writeErrorResponse(w, mapEngineError(err, req))
		return
	}

	dtos := convertTradesToDTO(trades)
	outcome := outcomeOf(incoming.Kind, incoming.Quantity, dtos)

	logger.Info("Order submitted", map[string]interface{}{
		"kind":    req.OrderKind,
		"side":    req.Side,
		"outcome": outcome,
		"trades":  len(dtos),
	})

	writeJSON(w, http.StatusOK, models.SubmitOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Order submitted successfully",
		},
		Outcome: outcome,
		Trades:  dtos,
	})
}
