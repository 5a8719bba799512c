package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseResponse is the base structure for all API responses
type BaseResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

// TradeDTO represents a trade in API responses
type TradeDTO struct {
	TradeID       uint64          `json:"trade_id"`
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	AggressorSide string          `json:"aggressor_side"`
	MakerOrderID  uint64          `json:"maker_order_id"`
	TakerOrderID  uint64          `json:"taker_order_id"`
	Timestamp     time.Time       `json:"timestamp"`
}

// SubmitOrderResponse represents the response for order submission.
// Outcome is one of: filled, partial, rested, discarded, killed.
type SubmitOrderResponse struct {
	BaseResponse
	Outcome string     `json:"outcome,omitempty"`
	Trades  []TradeDTO `json:"trades"`
}

// DepthLevelDTO represents one aggregated price level in the book
type DepthLevelDTO struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
	OrderCount int             `json:"order_count"`
}

// OrderBookResponse represents the aggregated depth of both sides
type OrderBookResponse struct {
	BaseResponse
	Symbol string          `json:"symbol"`
	Bids   []DepthLevelDTO `json:"bids"`
	Asks   []DepthLevelDTO `json:"asks"`
}

// QuoteResponse represents the best bid and offer
type QuoteResponse struct {
	BaseResponse
	Symbol  string           `json:"symbol"`
	BestBid *decimal.Decimal `json:"best_bid"`
	BestAsk *decimal.Decimal `json:"best_ask"`
	Spread  *decimal.Decimal `json:"spread"`
}

// GetTradesResponse represents the response for getting trades
type GetTradesResponse struct {
	BaseResponse
	Trades []TradeDTO `json:"trades"`
	Count  int        `json:"count"`
}

// StreamFrame is one websocket market-data push
type StreamFrame struct {
	Symbol    string           `json:"symbol"`
	BestBid   *decimal.Decimal `json:"best_bid"`
	BestAsk   *decimal.Decimal `json:"best_ask"`
	Spread    *decimal.Decimal `json:"spread"`
	Trades    []TradeDTO       `json:"trades"`
	Timestamp time.Time        `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Version       string    `json:"version"`
}
