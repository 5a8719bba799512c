package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchbook/clob/internal/api/models"
	"github.com/matchbook/clob/internal/api/tests/testutils"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// TestSimpleMarketOrderFlow tests a basic market order execution flow
func TestSimpleMarketOrderFlow(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	// Step 1: Place limit sell orders to create liquidity
	sell1 := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder("100", "10"))
	require.Equal(t, http.StatusOK, sell1.StatusCode)
	sell1.Body.Close()

	sell2 := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder("101", "20"))
	require.Equal(t, http.StatusOK, sell2.StatusCode)
	sell2.Body.Close()

	// Step 2: Place market buy order that should match
	buy := ts.Post("/api/v1/orders", testutils.NewMarketBuyOrder("10"))
	require.Equal(t, http.StatusOK, buy.StatusCode)

	var buyResp models.SubmitOrderResponse
	testutils.DecodeJSON(t, buy, &buyResp)

	assert.True(t, buyResp.Success)
	assert.Equal(t, "filled", buyResp.Outcome)
	require.Len(t, buyResp.Trades, 1, "Should have 1 trade")
	assert.True(t, buyResp.Trades[0].Price.Equal(dec("100")), "Should execute at best ask price")
	assert.True(t, buyResp.Trades[0].Quantity.Equal(dec("10")))
	assert.Equal(t, "buy", buyResp.Trades[0].AggressorSide)

	// Step 3: Verify the orderbook still has the second sell level
	var bookResp models.OrderBookResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/orderbook"), &bookResp)

	assert.Equal(t, testutils.TestSymbol, bookResp.Symbol)
	assert.Len(t, bookResp.Bids, 0, "No bids should remain")
	require.Len(t, bookResp.Asks, 1, "One ask level should remain")
	assert.True(t, bookResp.Asks[0].Price.Equal(dec("101")))
}

// TestLimitOrderRestsAndQuotes tests limit orders resting and the quote endpoint
func TestLimitOrderRestsAndQuotes(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	// Non-crossing limit orders on both sides
	buy := ts.Post("/api/v1/orders", testutils.NewLimitBuyOrder("99", "10"))
	require.Equal(t, http.StatusOK, buy.StatusCode)

	var buyResp models.SubmitOrderResponse
	testutils.DecodeJSON(t, buy, &buyResp)
	assert.Equal(t, "rested", buyResp.Outcome)
	assert.Len(t, buyResp.Trades, 0, "Should not match immediately")

	sell := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder("101", "20"))
	require.Equal(t, http.StatusOK, sell.StatusCode)
	sell.Body.Close()

	var quoteResp models.QuoteResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/quote"), &quoteResp)

	require.NotNil(t, quoteResp.BestBid)
	require.NotNil(t, quoteResp.BestAsk)
	require.NotNil(t, quoteResp.Spread)
	assert.True(t, quoteResp.BestBid.Equal(dec("99")))
	assert.True(t, quoteResp.BestAsk.Equal(dec("101")))
	assert.True(t, quoteResp.Spread.Equal(dec("2")))
}

// TestPartialFillFlow tests a crossing limit order that partially fills
// and rests its remainder
func TestPartialFillFlow(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	sell := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder("100", "4"))
	require.Equal(t, http.StatusOK, sell.StatusCode)
	sell.Body.Close()

	buy := ts.Post("/api/v1/orders", testutils.NewLimitBuyOrder("100", "10"))
	require.Equal(t, http.StatusOK, buy.StatusCode)

	var buyResp models.SubmitOrderResponse
	testutils.DecodeJSON(t, buy, &buyResp)

	assert.Equal(t, "partial", buyResp.Outcome)
	require.Len(t, buyResp.Trades, 1)
	assert.True(t, buyResp.Trades[0].Quantity.Equal(dec("4")))

	// The remainder of 6 rests on the bid side
	var bookResp models.OrderBookResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/orderbook"), &bookResp)

	require.Len(t, bookResp.Bids, 1)
	assert.True(t, bookResp.Bids[0].Price.Equal(dec("100")))
	assert.True(t, bookResp.Bids[0].Quantity.Equal(dec("6")))
	assert.Len(t, bookResp.Asks, 0)
}

// TestFOKKillFlow tests that an unfillable fill-or-kill leaves the book untouched
func TestFOKKillFlow(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	sell := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder("100", "1"))
	require.Equal(t, http.StatusOK, sell.StatusCode)
	sell.Body.Close()

	fok := ts.Post("/api/v1/orders", testutils.NewFOKBuyOrder("100", "2"))
	require.Equal(t, http.StatusOK, fok.StatusCode)

	var fokResp models.SubmitOrderResponse
	testutils.DecodeJSON(t, fok, &fokResp)

	assert.True(t, fokResp.Success, "A killed FOK is a defined outcome, not an error")
	assert.Equal(t, "killed", fokResp.Outcome)
	assert.Len(t, fokResp.Trades, 0)

	// The resting ask is untouched
	var bookResp models.OrderBookResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/orderbook"), &bookResp)
	require.Len(t, bookResp.Asks, 1)
	assert.True(t, bookResp.Asks[0].Quantity.Equal(dec("1")))

	// And no trades were recorded
	var tradesResp models.GetTradesResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/trades"), &tradesResp)
	assert.Equal(t, 0, tradesResp.Count)
}

// TestIOCDiscardFlow tests that an IOC remainder never rests
func TestIOCDiscardFlow(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	sell := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder("100", "3"))
	require.Equal(t, http.StatusOK, sell.StatusCode)
	sell.Body.Close()

	ioc := ts.Post("/api/v1/orders", testutils.NewIOCBuyOrder("100", "10"))
	require.Equal(t, http.StatusOK, ioc.StatusCode)

	var iocResp models.SubmitOrderResponse
	testutils.DecodeJSON(t, ioc, &iocResp)

	assert.Equal(t, "partial", iocResp.Outcome)
	require.Len(t, iocResp.Trades, 1)
	assert.True(t, iocResp.Trades[0].Quantity.Equal(dec("3")))

	var bookResp models.OrderBookResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/orderbook"), &bookResp)
	assert.Len(t, bookResp.Bids, 0, "IOC remainder must not rest")
	assert.Len(t, bookResp.Asks, 0)
}

// TestTradesEndpointOrderingAndLimit tests the trade history read path
func TestTradesEndpointOrderingAndLimit(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	for i := 0; i < 5; i++ {
		price := fmt.Sprintf("%d", 100+i)
		sell := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder(price, "1"))
		require.Equal(t, http.StatusOK, sell.StatusCode)
		sell.Body.Close()

		buy := ts.Post("/api/v1/orders", testutils.NewLimitBuyOrder(price, "1"))
		require.Equal(t, http.StatusOK, buy.StatusCode)
		buy.Body.Close()
	}

	var tradesResp models.GetTradesResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/trades?limit=3"), &tradesResp)

	assert.Equal(t, 3, tradesResp.Count)
	require.Len(t, tradesResp.Trades, 3)

	// Most recent first
	for i := 1; i < len(tradesResp.Trades); i++ {
		assert.Greater(t, tradesResp.Trades[i-1].TradeID, tradesResp.Trades[i].TradeID,
			"Trades must be most recent first")
	}
	assert.True(t, tradesResp.Trades[0].Price.Equal(dec("104")), "Latest trade comes first")
}

// TestOrderBookDepthAggregation tests aggregation and cumulative totals via the API
func TestOrderBookDepthAggregation(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	// Two orders at the same price plus one deeper level
	for _, req := range []interface{}{
		testutils.NewLimitBuyOrder("100", "2"),
		testutils.NewLimitBuyOrder("100", "3"),
		testutils.NewLimitBuyOrder("99", "5"),
	} {
		resp := ts.Post("/api/v1/orders", req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var bookResp models.OrderBookResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/orderbook"), &bookResp)

	require.Len(t, bookResp.Bids, 2)

	assert.True(t, bookResp.Bids[0].Price.Equal(dec("100")))
	assert.True(t, bookResp.Bids[0].Quantity.Equal(dec("5")))
	assert.True(t, bookResp.Bids[0].Total.Equal(dec("5")))
	assert.Equal(t, 2, bookResp.Bids[0].OrderCount)

	assert.True(t, bookResp.Bids[1].Price.Equal(dec("99")))
	assert.True(t, bookResp.Bids[1].Total.Equal(dec("10")), "Totals must be cumulative")
}

// TestOrderBookDepthParameter tests the depth query parameter
func TestOrderBookDepthParameter(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	for i := 0; i < 10; i++ {
		resp := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder(fmt.Sprintf("%d", 100+i), "1"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var bookResp models.OrderBookResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/orderbook?depth=4"), &bookResp)

	require.Len(t, bookResp.Asks, 4)
	assert.True(t, bookResp.Asks[0].Price.Equal(dec("100")), "Depth truncation keeps the best levels")
}

// TestValidationErrorResponses tests rejected submissions
func TestValidationErrorResponses(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	cases := []struct {
		name       string
		body       models.SubmitOrderRequest
		wantStatus int
		wantCode   models.ErrorCode
	}{
		{
			name:       "unknown kind",
			body:       models.SubmitOrderRequest{OrderKind: "stop", Side: "buy", Price: dec("100"), Quantity: dec("1")},
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrInvalidOrderKind,
		},
		{
			name:       "unknown side",
			body:       models.SubmitOrderRequest{OrderKind: "limit", Side: "hold", Price: dec("100"), Quantity: dec("1")},
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrInvalidSide,
		},
		{
			name:       "zero quantity",
			body:       models.SubmitOrderRequest{OrderKind: "limit", Side: "buy", Price: dec("100")},
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrInvalidQuantity,
		},
		{
			name:       "limit without price",
			body:       models.SubmitOrderRequest{OrderKind: "limit", Side: "buy", Quantity: dec("1")},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   models.ErrMissingPrice,
		},
		{
			name:       "negative price",
			body:       models.SubmitOrderRequest{OrderKind: "ioc", Side: "sell", Price: dec("-5"), Quantity: dec("1")},
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrInvalidPrice,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := ts.Post("/api/v1/orders", tc.body)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			var errResp models.BaseResponse
			testutils.DecodeJSON(t, resp, &errResp)

			assert.False(t, errResp.Success)
			require.NotNil(t, errResp.Error)
			assert.Equal(t, tc.wantCode, errResp.Error.Code)
		})
	}

	// Nothing may have reached the book
	var bookResp models.OrderBookResponse
	testutils.DecodeJSON(t, ts.Get("/api/v1/orderbook"), &bookResp)
	assert.Len(t, bookResp.Bids, 0)
	assert.Len(t, bookResp.Asks, 0)
}

// TestMethodNotAllowed tests HTTP method restrictions on the routes
func TestMethodNotAllowed(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	resp := ts.Get("/api/v1/orders")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()

	post := ts.Post("/api/v1/trades", map[string]string{})
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
	post.Body.Close()
}

// TestHealthEndpoint tests the health check
func TestHealthEndpoint(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	resp := ts.Get("/api/v1/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health models.HealthResponse
	testutils.DecodeJSON(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
}

// TestPriceImprovementViaAPI tests that a crossing limit buy executes at
// the resting ask price, not its own limit
func TestPriceImprovementViaAPI(t *testing.T) {
	ts := testutils.NewTestServer(t)
	defer ts.Close()

	sell := ts.Post("/api/v1/orders", testutils.NewLimitSellOrder("45005", "0.5"))
	require.Equal(t, http.StatusOK, sell.StatusCode)
	sell.Body.Close()

	buy := ts.Post("/api/v1/orders", testutils.NewLimitBuyOrder("45010", "0.5"))
	require.Equal(t, http.StatusOK, buy.StatusCode)

	var buyResp models.SubmitOrderResponse
	testutils.DecodeJSON(t, buy, &buyResp)

	require.Len(t, buyResp.Trades, 1)
	assert.True(t, buyResp.Trades[0].Price.Equal(dec("45005")),
		"Execution must happen at the maker's price")
}
