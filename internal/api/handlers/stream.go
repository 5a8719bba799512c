package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matchbook/clob/internal/api/logger"
	"github.com/matchbook/clob/internal/api/models"
)

const streamTradeCount = 30

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The simulator UI is served from a different origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler upgrades to a websocket and pushes quote + recent-trade
// snapshots at a fixed interval until the client disconnects.
func (eh *EngineHolder) StreamHandler(interval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("Websocket upgrade failed", map[string]interface{}{
				"error":  err.Error(),
				"remote": r.RemoteAddr,
			})
			return
		}
		defer conn.Close()

		logger.Info("Stream client connected", map[string]interface{}{
			"remote": r.RemoteAddr,
		})

		// Reader goroutine: drain control frames, signal disconnect
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				logger.Info("Stream client disconnected", map[string]interface{}{
					"remote": r.RemoteAddr,
				})
				return
			case <-ticker.C:
				quote := eh.Engine.Quote()
				frame := models.StreamFrame{
					Symbol:    eh.Engine.Symbol(),
					BestBid:   quote.BestBid,
					BestAsk:   quote.BestAsk,
					Spread:    quote.Spread,
					Trades:    convertTradesToDTO(eh.Engine.RecentTrades(streamTradeCount)),
					Timestamp: time.Now().UTC(),
				}

				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			}
		}
	}
}
