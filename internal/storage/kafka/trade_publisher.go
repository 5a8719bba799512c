package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/matchbook/clob/internal/types"
)

// Config holds Kafka publisher configuration
type Config struct {
	Brokers []string
	Topic   string
}

// TradePublisher implements storage.TradeStore by publishing every trade
// to a Kafka topic as JSON, keyed by trade ID. Write-only: GetRecent
// returns empty; compose with the memory store for reads.
type TradePublisher struct {
	writer *kafka.Writer
}

// NewTradePublisher creates a Kafka-backed trade publisher
func NewTradePublisher(cfg Config) *TradePublisher {
	return &TradePublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *TradePublisher) Save(trade *types.Trade) error {
	return p.SaveBatch([]*types.Trade{trade})
}

func (p *TradePublisher) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		value, err := json.Marshal(trade)
		if err != nil {
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(strconv.FormatUint(trade.ID, 10)),
			Value: value,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, messages...)
}

func (p *TradePublisher) GetRecent(limit int) ([]*types.Trade, error) {
	return []*types.Trade{}, nil
}

func (p *TradePublisher) Close() error {
	return p.writer.Close()
}
