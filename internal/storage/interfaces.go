package storage

import "github.com/matchbook/clob/internal/types"

// TradeStore abstracts trade persistence behind the engine's append-only
// trade log. Implementations can be an in-memory buffer, a file log,
// Redis, PostgreSQL, or a Kafka publisher. Stores are write-through
// mirrors: the engine never rebuilds book state from them.
type TradeStore interface {
	// Save persists a single trade
	Save(trade *types.Trade) error

	// SaveBatch persists multiple trades (useful for database batch inserts)
	SaveBatch(trades []*types.Trade) error

	// GetRecent retrieves the N most recent trades, newest first
	GetRecent(limit int) ([]*types.Trade, error)

	// Close releases any resources held by the store
	Close() error
}
