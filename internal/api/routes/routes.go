package routes

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matchbook/clob/internal/api/handlers"
	"github.com/matchbook/clob/internal/api/middleware"
)

// Options configures route behavior
type Options struct {
	StreamInterval time.Duration
}

// SetupRoutes configures all API routes with middleware
func SetupRoutes(engineHolder *handlers.EngineHolder, opts Options) http.Handler {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 500 * time.Millisecond
	}

	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/api/v1/health", handlers.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Order submission
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			engineHolder.SubmitOrderHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Order book depth
	mux.HandleFunc("/api/v1/orderbook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetOrderBookHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Best bid/offer
	mux.HandleFunc("/api/v1/quote", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetQuoteHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Recent trades
	mux.HandleFunc("/api/v1/trades", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetTradesHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Live market-data stream
	mux.HandleFunc("/api/v1/stream", engineHolder.StreamHandler(opts.StreamInterval))

	// Apply middleware (order matters: Recovery -> CORS -> Logging -> Handler)
	handler := middleware.Recovery(mux)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)

	return handler
}
