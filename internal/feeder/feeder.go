// Package feeder is a scheduled client of the matching engine: it seeds
// the book with resting liquidity and then submits small randomized
// orders on a timer to keep the book moving. It holds no state of its
// own beyond the random source and carries no matching invariants.
package feeder

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/internal/api/logger"
	"github.com/matchbook/clob/internal/matching"
	"github.com/matchbook/clob/internal/types"
)

var two = decimal.NewFromInt(2)

// Config controls seeding and the submission cadence
type Config struct {
	Interval   time.Duration
	BasePrice  decimal.Decimal
	SeedLevels int
}

// Feeder periodically submits randomized orders through Engine.Submit
type Feeder struct {
	engine *matching.Engine
	cfg    Config
	rng    *rand.Rand

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a feeder for the given engine
func New(engine *matching.Engine, cfg Config) *Feeder {
	if cfg.Interval <= 0 {
		cfg.Interval = 1500 * time.Millisecond
	}
	if cfg.SeedLevels <= 0 {
		cfg.SeedLevels = 15
	}
	if !cfg.BasePrice.IsPositive() {
		cfg.BasePrice = decimal.NewFromInt(45000)
	}

	return &Feeder{
		engine: engine,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:   make(chan struct{}),
	}
}

// Seed populates both sides of the book with resting limit orders:
// SeedLevels ask levels above the base price and the same number of
// bid levels below it, half a tick apart, with random quantities.
func (f *Feeder) Seed() {
	for i := 0; i < f.cfg.SeedLevels; i++ {
		offset := decimal.NewFromFloat(float64(i+1) * 0.5)
		quantity := f.randomQuantity(0.1, 5.0)

		f.submit(types.NewIncomingOrder(types.Limit, types.Sell, f.cfg.BasePrice.Add(offset), quantity))
		f.submit(types.NewIncomingOrder(types.Limit, types.Buy, f.cfg.BasePrice.Sub(offset), f.randomQuantity(0.1, 5.0)))
	}

	logger.Info("Order book seeded", map[string]interface{}{
		"levels_per_side": f.cfg.SeedLevels,
		"base_price":      f.cfg.BasePrice.String(),
	})
}

// Start launches the submission loop
func (f *Feeder) Start() {
	f.wg.Add(1)
	go f.run()
}

// Stop halts the submission loop and waits for it to exit
func (f *Feeder) Stop() {
	close(f.stop)
	f.wg.Wait()
}

func (f *Feeder) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
			f.submitRandom()
		}
	}
}

// submitRandom sends one small random order near the current mid price.
// Roughly 70% limit orders around the touch, the rest market orders.
func (f *Feeder) submitRandom() {
	side := types.Buy
	if f.rng.Float64() > 0.5 {
		side = types.Sell
	}

	quantity := f.randomQuantity(0.01, 0.5)

	if f.rng.Float64() < 0.3 {
		f.submit(types.NewIncomingOrder(types.Market, side, decimal.Zero, quantity))
		return
	}

	mid := f.midPrice()
	offset := decimal.NewFromFloat((f.rng.Float64() - 0.5) * 5).Round(2)
	price := mid.Add(offset).Round(2)
	if !price.IsPositive() {
		return
	}

	f.submit(types.NewIncomingOrder(types.Limit, side, price, quantity))
}

// midPrice returns the midpoint of the current quote, falling back to
// the configured base price when either side is empty.
func (f *Feeder) midPrice() decimal.Decimal {
	quote := f.engine.Quote()
	if quote.BestBid == nil || quote.BestAsk == nil {
		return f.cfg.BasePrice
	}
	return quote.BestBid.Add(*quote.BestAsk).Div(two)
}

// randomQuantity draws a quantity in [min, min+spread), 4 decimal places
func (f *Feeder) randomQuantity(min, spread float64) decimal.Decimal {
	return decimal.NewFromFloat(min + f.rng.Float64()*spread).Round(4)
}

func (f *Feeder) submit(req types.IncomingOrder) {
	if _, err := f.engine.Submit(req); err != nil {
		logger.Warn("Feeder order rejected", map[string]interface{}{
			"error": err.Error(),
			"kind":  req.Kind.String(),
			"side":  req.Side.String(),
		})
	}
}
