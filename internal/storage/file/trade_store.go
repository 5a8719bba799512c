package file

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/matchbook/clob/internal/types"
)

// TradeStore implements storage.TradeStore using append-only JSON lines.
// The file preserves insertion order, which is what the audit log needs.
// Read operations return empty (file is write-only; compose with the
// memory store for reads).
type TradeStore struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

// NewTradeStore opens (or creates) the trade log at filePath
func NewTradeStore(filePath string) (*TradeStore, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &TradeStore{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

func (s *TradeStore) Save(trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.encoder.Encode(trade)
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, trade := range trades {
		if err := s.encoder.Encode(trade); err != nil {
			return err
		}
	}
	return nil
}

func (s *TradeStore) GetRecent(limit int) ([]*types.Trade, error) {
	return []*types.Trade{}, nil
}

func (s *TradeStore) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
