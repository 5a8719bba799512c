package memory

import (
	"sync"

	"github.com/matchbook/clob/internal/types"
)

// TradeStore implements storage.TradeStore using a bounded in-memory
// buffer. Keeps only the N most recent trades.
type TradeStore struct {
	trades  []*types.Trade
	maxSize int
	mutex   sync.RWMutex
}

// NewTradeStore creates an in-memory trade store with a size limit
func NewTradeStore(maxSize int) *TradeStore {
	return &TradeStore{
		trades:  make([]*types.Trade, 0, maxSize),
		maxSize: maxSize,
	}
}

func (s *TradeStore) Save(trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trade)
	s.trim()
	return nil
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trades...)
	s.trim()
	return nil
}

// trim drops the oldest entries once the buffer exceeds maxSize.
// Caller must hold the lock.
func (s *TradeStore) trim() {
	if len(s.trades) > s.maxSize {
		s.trades = s.trades[len(s.trades)-s.maxSize:]
	}
}

func (s *TradeStore) GetRecent(limit int) ([]*types.Trade, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 || limit > len(s.trades) {
		limit = len(s.trades)
	}

	// Stored oldest first; returned newest first
	recent := make([]*types.Trade, limit)
	for i := 0; i < limit; i++ {
		recent[i] = s.trades[len(s.trades)-1-i]
	}
	return recent, nil
}

func (s *TradeStore) Close() error {
	return nil
}
