package testutils

import (
	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/internal/api/models"
)

// SubmitOrderRequest builders for common test cases

// NewMarketBuyOrder creates a market buy order request
func NewMarketBuyOrder(quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		OrderKind: "market",
		Side:      "buy",
		Quantity:  decimal.RequireFromString(quantity),
	}
}

// NewMarketSellOrder creates a market sell order request
func NewMarketSellOrder(quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		OrderKind: "market",
		Side:      "sell",
		Quantity:  decimal.RequireFromString(quantity),
	}
}

// NewLimitBuyOrder creates a limit buy order request
func NewLimitBuyOrder(price, quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		OrderKind: "limit",
		Side:      "buy",
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.RequireFromString(quantity),
	}
}

// NewLimitSellOrder creates a limit sell order request
func NewLimitSellOrder(price, quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		OrderKind: "limit",
		Side:      "sell",
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.RequireFromString(quantity),
	}
}

// NewIOCBuyOrder creates an immediate-or-cancel buy order request
func NewIOCBuyOrder(price, quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		OrderKind: "ioc",
		Side:      "buy",
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.RequireFromString(quantity),
	}
}

// NewFOKBuyOrder creates a fill-or-kill buy order request
func NewFOKBuyOrder(price, quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		OrderKind: "fok",
		Side:      "buy",
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.RequireFromString(quantity),
	}
}
