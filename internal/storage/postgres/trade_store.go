package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/internal/types"
)

// TradeStore implements storage.TradeStore using PostgreSQL. Prices and
// quantities travel as NUMERIC text so no precision is lost.
type TradeStore struct {
	pool *pgxpool.Pool
}

// NewTradeStore creates a PostgreSQL-backed trade store and runs
// migrations.
func NewTradeStore(cfg Config) (*TradeStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &TradeStore{pool: pool}, nil
}

const insertTrade = `
	INSERT INTO trades (trade_id, symbol, price, quantity, aggressor_side, maker_order_id, taker_order_id, executed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (trade_id) DO NOTHING
`

func (s *TradeStore) Save(trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertTrade,
		trade.ID, trade.Symbol, trade.Price.String(), trade.Quantity.String(),
		trade.AggressorSide.String(), trade.MakerOrderID, trade.TakerOrderID, trade.Timestamp,
	)
	return err
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	for _, trade := range trades {
		batch.Queue(insertTrade,
			trade.ID, trade.Symbol, trade.Price.String(), trade.Quantity.String(),
			trade.AggressorSide.String(), trade.MakerOrderID, trade.TakerOrderID, trade.Timestamp,
		)
	}

	return s.pool.SendBatch(ctx, batch).Close()
}

func (s *TradeStore) GetRecent(limit int) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT trade_id, symbol, price::text, quantity::text, aggressor_side, maker_order_id, taker_order_id, executed_at
		FROM trades
		ORDER BY executed_at DESC, trade_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*types.Trade
	for rows.Next() {
		var (
			trade     types.Trade
			price     string
			quantity  string
			aggressor string
		)
		if err := rows.Scan(&trade.ID, &trade.Symbol, &price, &quantity,
			&aggressor, &trade.MakerOrderID, &trade.TakerOrderID, &trade.Timestamp); err != nil {
			return nil, err
		}

		if trade.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("bad price for trade %d: %w", trade.ID, err)
		}
		if trade.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("bad quantity for trade %d: %w", trade.ID, err)
		}
		if aggressor == types.Sell.String() {
			trade.AggressorSide = types.Sell
		} else {
			trade.AggressorSide = types.Buy
		}

		trades = append(trades, &trade)
	}

	return trades, rows.Err()
}

func (s *TradeStore) Close() error {
	s.pool.Close()
	return nil
}
