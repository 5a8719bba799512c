package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies which half of the book an order belongs to
type Side int

const (
	NoSide Side = iota
	Buy
	Sell
)

// String returns the lowercase wire representation of the side
func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Opposite returns the side an incoming order matches against
func (s Side) Opposite() Side {
	switch s {
	case Buy:
		return Sell
	case Sell:
		return Buy
	default:
		return NoSide
	}
}

// OrderKind identifies the execution semantics of an incoming order
type OrderKind int

const (
	NoKind OrderKind = iota
	Market
	Limit
	IOC // immediate-or-cancel: partial fill allowed, remainder discarded
	FOK // fill-or-kill: all-or-nothing, never rests
)

// String returns the lowercase wire representation of the order kind
func (k OrderKind) String() string {
	switch k {
	case Market:
		return "market"
	case Limit:
		return "limit"
	case IOC:
		return "ioc"
	case FOK:
		return "fok"
	default:
		return "unknown"
	}
}

// Order is a resting order held in the book awaiting a match.
// Quantity is the remaining open quantity and only ever decreases;
// the order is removed from the book once it reaches zero.
// Orders are owned by the book and mutated in place during matching.
type Order struct {
	ID        uint64          `json:"order_id"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`
}

// IncomingOrder is a new-order request submitted to the engine.
// It is ephemeral: it exists only for the duration of one submission
// and is never stored. Price is ignored for market orders and
// mandatory for every other kind.
type IncomingOrder struct {
	Kind     OrderKind
	Side     Side
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// NewIncomingOrder builds an incoming order request
func NewIncomingOrder(kind OrderKind, side Side, price, quantity decimal.Decimal) IncomingOrder {
	return IncomingOrder{
		Kind:     kind,
		Side:     side,
		Price:    price,
		Quantity: quantity,
	}
}
