package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade represents one execution between an incoming (taker) order and a
// resting (maker) order. Price is always the maker's resting price.
// Trades are immutable once created.
type Trade struct {
	ID            uint64          `json:"trade_id"`
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	AggressorSide Side            `json:"aggressor_side"`
	MakerOrderID  uint64          `json:"maker_order_id"`
	TakerOrderID  uint64          `json:"taker_order_id"`
	Timestamp     time.Time       `json:"timestamp"`
}
