package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SubmitOrderRequest represents a single order submission.
// Price and quantity accept JSON numbers or strings; decimal parsing
// keeps them exact.
type SubmitOrderRequest struct {
	OrderKind string          `json:"order_kind"` // "market" | "limit" | "ioc" | "fok"
	Side      string          `json:"side"`       // "buy" | "sell"
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

var validKinds = map[string]bool{
	"market": true,
	"limit":  true,
	"ioc":    true,
	"fok":    true,
}

// Validate validates the order request
func (r *SubmitOrderRequest) Validate() *HTTPError {
	kind := strings.ToLower(strings.TrimSpace(r.OrderKind))
	if !validKinds[kind] {
		return ErrInvalidOrderKindError(r.OrderKind)
	}

	side := strings.ToLower(strings.TrimSpace(r.Side))
	if side != "buy" && side != "sell" {
		return ErrInvalidSideError(r.Side)
	}

	if !r.Quantity.IsPositive() {
		return ErrInvalidQuantityError(r.Quantity.String())
	}

	// Price is mandatory for everything except market orders
	if kind != "market" {
		if r.Price.IsZero() {
			return ErrMissingPriceError(kind)
		}
		if !r.Price.IsPositive() {
			return ErrInvalidPriceError(r.Price.String())
		}
	}

	return nil
}
