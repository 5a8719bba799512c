package matching

import (
	"testing"

	"github.com/matchbook/clob/internal/matching"
	"github.com/matchbook/clob/internal/types"
)

// TestNewOrderBook tests the OrderBook constructor
func TestNewOrderBook(t *testing.T) {
	book := matching.NewOrderBook()

	if book == nil {
		t.Fatal("NewOrderBook() returned nil")
	}
	if _, ok := book.BestBid(); ok {
		t.Error("Empty book must have no best bid")
	}
	if _, ok := book.BestAsk(); ok {
		t.Error("Empty book must have no best ask")
	}
}

// TestSequenceIsStrictlyIncreasing tests the book's ID allocator
func TestSequenceIsStrictlyIncreasing(t *testing.T) {
	book := matching.NewOrderBook()

	prev := book.NextID()
	for i := 0; i < 100; i++ {
		next := book.NextID()
		if next <= prev {
			t.Fatalf("Sequence not strictly increasing: %d after %d", next, prev)
		}
		prev = next
	}
}

// TestBestBidIsHighest tests bid-side price priority
func TestBestBidIsHighest(t *testing.T) {
	book := matching.NewOrderBook()

	for _, price := range []string{"100", "102", "98", "101"} {
		book.Insert(&types.Order{
			ID:       book.NextID(),
			Side:     types.Buy,
			Price:    dec(price),
			Quantity: dec("1"),
		})
	}

	best, ok := book.BestBid()
	if !ok {
		t.Fatal("Expected a best bid")
	}
	if !best.Equal(dec("102")) {
		t.Errorf("Expected best bid 102, got %s", best)
	}
}

// TestBestAskIsLowest tests ask-side price priority
func TestBestAskIsLowest(t *testing.T) {
	book := matching.NewOrderBook()

	for _, price := range []string{"105", "103", "107", "104"} {
		book.Insert(&types.Order{
			ID:       book.NextID(),
			Side:     types.Sell,
			Price:    dec(price),
			Quantity: dec("1"),
		})
	}

	best, ok := book.BestAsk()
	if !ok {
		t.Fatal("Expected a best ask")
	}
	if !best.Equal(dec("103")) {
		t.Errorf("Expected best ask 103, got %s", best)
	}
}

// TestPriceTimePriority tests that matching consumes better prices first
// and, within a price, the oldest order first
func TestPriceTimePriority(t *testing.T) {
	engine := matching.NewEngine("BTC-USDT")

	// Three asks out of price order, plus a second order at the best price
	submitLimit(t, engine, types.Sell, "100", "1")
	submitLimit(t, engine, types.Sell, "101", "1")
	submitLimit(t, engine, types.Sell, "99", "1")
	submitLimit(t, engine, types.Sell, "99", "1")

	// Sweep everything with a market buy and record the execution order
	trades, err := engine.Submit(types.NewIncomingOrder(types.Market, types.Buy, dec("0"), dec("4")))
	if err != nil {
		t.Fatalf("Submit(market buy) returned error: %v", err)
	}
	if len(trades) != 4 {
		t.Fatalf("Expected 4 trades, got %d", len(trades))
	}

	wantPrices := []string{"99", "99", "100", "101"}
	for i, want := range wantPrices {
		if !trades[i].Price.Equal(dec(want)) {
			t.Errorf("Trade %d: expected price %s, got %s", i, want, trades[i].Price)
		}
	}

	// At the shared 99 level, the earlier maker matches first
	if trades[0].MakerOrderID >= trades[1].MakerOrderID {
		t.Errorf("Time priority violated at shared price: maker %d before maker %d",
			trades[0].MakerOrderID, trades[1].MakerOrderID)
	}
}

// TestSamePriceJoinsBackOfQueue tests FIFO order within a price level
// from the engine's resting-order snapshot
func TestSamePriceJoinsBackOfQueue(t *testing.T) {
	engine := matching.NewEngine("BTC-USDT")

	submitLimit(t, engine, types.Buy, "100", "1")
	submitLimit(t, engine, types.Buy, "100", "2")
	submitLimit(t, engine, types.Buy, "100", "3")

	resting := engine.RestingOrders(types.Buy)
	if len(resting) != 3 {
		t.Fatalf("Expected 3 resting bids, got %d", len(resting))
	}
	for i := 1; i < len(resting); i++ {
		if resting[i].ID <= resting[i-1].ID {
			t.Errorf("Queue order violated: ID %d before %d", resting[i-1].ID, resting[i].ID)
		}
	}
}

// TestRestingSnapshotIsPriorityOrdered tests the snapshot ordering
// across price levels on both sides
func TestRestingSnapshotIsPriorityOrdered(t *testing.T) {
	engine := matching.NewEngine("BTC-USDT")

	submitLimit(t, engine, types.Buy, "100", "1")
	submitLimit(t, engine, types.Buy, "101", "1")
	submitLimit(t, engine, types.Buy, "99", "1")
	submitLimit(t, engine, types.Sell, "103", "1")
	submitLimit(t, engine, types.Sell, "102", "1")
	submitLimit(t, engine, types.Sell, "104", "1")

	bids := engine.RestingOrders(types.Buy)
	for i := 1; i < len(bids); i++ {
		if bids[i].Price.GreaterThan(bids[i-1].Price) {
			t.Errorf("Bids not descending: %s after %s", bids[i].Price, bids[i-1].Price)
		}
	}

	asks := engine.RestingOrders(types.Sell)
	for i := 1; i < len(asks); i++ {
		if asks[i].Price.LessThan(asks[i-1].Price) {
			t.Errorf("Asks not ascending: %s after %s", asks[i].Price, asks[i-1].Price)
		}
	}
}

// TestLevelRemovedWhenDrained tests that a fully consumed price level
// disappears from the book
func TestLevelRemovedWhenDrained(t *testing.T) {
	engine := matching.NewEngine("BTC-USDT")

	submitLimit(t, engine, types.Sell, "100", "1")
	submitLimit(t, engine, types.Sell, "101", "1")

	submitLimit(t, engine, types.Buy, "100", "1")

	best := engine.Quote().BestAsk
	if best == nil {
		t.Fatal("Expected a remaining best ask")
	}
	if !best.Equal(dec("101")) {
		t.Errorf("Expected best ask 101 after draining 100, got %s", best)
	}
}

// TestFractionalQuantitiesSubtractExactly tests decimal arithmetic on
// partial fills: repeated fractional fills drain an order to exactly zero
func TestFractionalQuantitiesSubtractExactly(t *testing.T) {
	engine := matching.NewEngine("BTC-USDT")

	submitLimit(t, engine, types.Sell, "100", "0.3")

	for i := 0; i < 3; i++ {
		trades := submitLimit(t, engine, types.Buy, "100", "0.1")
		if len(trades) != 1 {
			t.Fatalf("Fill %d: expected 1 trade, got %d", i, len(trades))
		}
	}

	if asks := engine.RestingOrders(types.Sell); len(asks) != 0 {
		t.Errorf("Expected the ask drained to exactly zero, got %d resting (qty %s)",
			len(asks), asks[0].Quantity)
	}
	if bids := engine.RestingOrders(types.Buy); len(bids) != 0 {
		t.Errorf("Expected no resting bids, got %d", len(bids))
	}
}
