package matching

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/internal/metrics"
	"github.com/matchbook/clob/internal/storage"
	"github.com/matchbook/clob/internal/types"
)

// Validation failures reported to the caller before any matching runs.
// A rejected request never touches the book.
var (
	ErrInvalidSide         = errors.New("order side must be buy or sell")
	ErrInvalidKind         = errors.New("order kind must be market, limit, ioc or fok")
	ErrQuantityNotPositive = errors.New("order quantity must be positive")
	ErrPriceRequired       = errors.New("a positive limit price is required for non-market orders")
)

// Engine is the single-symbol matching engine. It owns the order book,
// the append-only trade log and the submission path. One mutex serializes
// submissions against each other and against snapshot reads, so a
// submitted order always completes its matching pass atomically.
type Engine struct {
	mu     sync.Mutex
	book   *OrderBook
	symbol string

	// trades preserves insertion order for audit; reads reverse it
	trades []*types.Trade

	store storage.TradeStore
}

// NewEngine creates an engine with an empty book and no external trade store
func NewEngine(symbol string) *Engine {
	return &Engine{
		book:   NewOrderBook(),
		symbol: symbol,
	}
}

// NewEngineWithStore creates an engine that mirrors every trade into the
// given store in addition to the in-process log.
func NewEngineWithStore(symbol string, store storage.TradeStore) *Engine {
	engine := NewEngine(symbol)
	engine.store = store
	return engine
}

// Symbol returns the symbol this engine matches
func (e *Engine) Symbol() string {
	return e.symbol
}

// Close releases the attached trade store, if any
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// validate applies the boundary checks from the request contract:
// strictly positive quantity, and a strictly positive price for every
// kind except market.
func validate(req types.IncomingOrder) error {
	if req.Side != types.Buy && req.Side != types.Sell {
		return ErrInvalidSide
	}

	switch req.Kind {
	case types.Market, types.Limit, types.IOC, types.FOK:
	default:
		return ErrInvalidKind
	}

	if !req.Quantity.IsPositive() {
		return ErrQuantityNotPositive
	}

	if req.Kind != types.Market && !req.Price.IsPositive() {
		return ErrPriceRequired
	}

	return nil
}

// marketable reports whether a maker at makerPrice can trade against an
// incoming order with the given side and limit price.
func marketable(side types.Side, limit, makerPrice decimal.Decimal) bool {
	if side == types.Buy {
		return makerPrice.LessThanOrEqual(limit)
	}
	return makerPrice.GreaterThanOrEqual(limit)
}

// Submit is the sole mutating entry point. It validates the request,
// runs the matching pass for its kind and returns the generated trades
// in the order the makers were matched. Every non-error outcome —
// full fill, partial fill, full rest, full discard, FOK kill — is a
// defined result, not a failure; an empty trade slice with a nil error
// means the request produced no executions.
func (e *Engine) Submit(req types.IncomingOrder) ([]*types.Trade, error) {
	if err := validate(req); err != nil {
		metrics.OrdersSubmitted.WithLabelValues(req.Kind.String(), "rejected").Inc()
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The incoming order gets a synthetic identity so trades can name
	// their taker. The sequence advances even for killed FOK orders;
	// only resting state must stay untouched.
	takerID := e.book.NextID()

	if req.Kind == types.FOK {
		fillable := e.fillableQuantity(req.Side, req.Price)
		if fillable.LessThan(req.Quantity) {
			metrics.OrdersSubmitted.WithLabelValues(req.Kind.String(), "killed").Inc()
			return nil, nil
		}
	}

	trades, remaining := e.match(req, takerID)

	if remaining.IsPositive() && req.Kind == types.Limit {
		e.book.Insert(&types.Order{
			ID:        e.book.NextID(),
			Side:      req.Side,
			Price:     req.Price,
			Quantity:  remaining,
			Timestamp: time.Now(),
		})
	}
	// Market and IOC remainders are discarded; FOK never has one.

	e.recordTrades(trades)
	e.observe(req, trades, remaining)

	return trades, nil
}

// match walks the opposite side in price-time priority, consuming
// resting liquidity until the incoming quantity is exhausted, the side
// empties, or (for priced kinds) the best maker is no longer marketable.
// It returns the trades in matching order and the unfilled remainder.
func (e *Engine) match(req types.IncomingOrder, takerID uint64) ([]*types.Trade, decimal.Decimal) {
	opposite := e.book.oppositeOf(req.Side)
	remaining := req.Quantity
	var trades []*types.Trade

	for remaining.IsPositive() {
		maker := opposite.peekBest()
		if maker == nil {
			break
		}
		if req.Kind != types.Market && !marketable(req.Side, req.Price, maker.Price) {
			break
		}

		quantity := decimal.Min(remaining, maker.Quantity)

		// Execution always happens at the maker's resting price, so
		// price improvement accrues to the incoming order.
		trades = append(trades, &types.Trade{
			ID:            e.book.NextID(),
			Symbol:        e.symbol,
			Price:         maker.Price,
			Quantity:      quantity,
			AggressorSide: req.Side,
			MakerOrderID:  maker.ID,
			TakerOrderID:  takerID,
			Timestamp:     time.Now(),
		})

		remaining = remaining.Sub(quantity)
		maker.Quantity = maker.Quantity.Sub(quantity)

		if maker.Quantity.IsZero() {
			opposite.dropBest()
		}
	}

	return trades, remaining
}

// fillableQuantity sums the opposite-side liquidity priced at or better
// than limit. Used by the FOK pre-check, before any mutation.
func (e *Engine) fillableQuantity(side types.Side, limit decimal.Decimal) decimal.Decimal {
	opposite := e.book.oppositeOf(side)
	total := decimal.Zero

	for _, level := range opposite.levels {
		if !marketable(side, limit, level.price) {
			break
		}
		total = total.Add(level.totalQuantity())
	}

	return total
}

// recordTrades appends to the in-process log and mirrors to the
// attached store. The log keeps insertion order for audit.
func (e *Engine) recordTrades(trades []*types.Trade) {
	if len(trades) == 0 {
		return
	}

	e.trades = append(e.trades, trades...)

	if e.store != nil {
		if err := e.store.SaveBatch(trades); err != nil {
			// The in-process log is authoritative; a mirror failure
			// must not fail the submission.
			metrics.StoreErrors.Inc()
		}
	}
}

// observe updates the engine metrics after a completed submission
func (e *Engine) observe(req types.IncomingOrder, trades []*types.Trade, remaining decimal.Decimal) {
	outcome := "filled"
	switch {
	case len(trades) == 0 && req.Kind == types.Limit:
		outcome = "rested"
	case len(trades) == 0:
		outcome = "discarded"
	case remaining.IsPositive() && req.Kind == types.Limit:
		outcome = "rested"
	case remaining.IsPositive():
		outcome = "discarded"
	}
	metrics.OrdersSubmitted.WithLabelValues(req.Kind.String(), outcome).Inc()

	for _, trade := range trades {
		metrics.TradesExecuted.Inc()
		volume, _ := trade.Quantity.Float64()
		metrics.TradeVolume.Add(volume)
	}

	metrics.RestingOrders.WithLabelValues(types.Buy.String()).Set(float64(e.book.bids.orderCount()))
	metrics.RestingOrders.WithLabelValues(types.Sell.String()).Set(float64(e.book.asks.orderCount()))
}

// RecentTrades returns up to limit trades, most recent first
func (e *Engine) RecentTrades(limit int) []*types.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	if limit <= 0 || limit > len(e.trades) {
		limit = len(e.trades)
	}

	recent := make([]*types.Trade, limit)
	for i := 0; i < limit; i++ {
		recent[i] = e.trades[len(e.trades)-1-i]
	}
	return recent
}

// RestingOrders returns a snapshot of one side's resting orders in
// matching priority order. Intended for diagnostics and tests; the
// returned orders are copies.
func (e *Engine) RestingOrders(side types.Side) []types.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	resting := e.book.sideOf(side).ordersInPriority()
	snapshot := make([]types.Order, len(resting))
	for i, order := range resting {
		snapshot[i] = *order
	}
	return snapshot
}
