package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/config"
	"github.com/matchbook/clob/internal/api/handlers"
	"github.com/matchbook/clob/internal/api/logger"
	"github.com/matchbook/clob/internal/api/routes"
	"github.com/matchbook/clob/internal/feeder"
	"github.com/matchbook/clob/internal/matching"
	"github.com/matchbook/clob/internal/storage"
	"github.com/matchbook/clob/internal/storage/file"
	"github.com/matchbook/clob/internal/storage/kafka"
	"github.com/matchbook/clob/internal/storage/memory"
	"github.com/matchbook/clob/internal/storage/postgres"
	"github.com/matchbook/clob/internal/storage/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with config
	logLevel := logger.INFO
	switch cfg.Logger.Level {
	case "DEBUG":
		logLevel = logger.DEBUG
	case "WARN":
		logLevel = logger.WARN
	case "ERROR":
		logLevel = logger.ERROR
	}
	logger.SetMinLevel(logLevel)

	logger.Info("Starting matching engine API server", map[string]interface{}{
		"symbol":  cfg.Engine.Symbol,
		"version": "1.0.0",
	})

	// Build the trade store layers and the engine
	tradeStore := buildTradeStore(cfg)
	engine := matching.NewEngineWithStore(cfg.Engine.Symbol, tradeStore)
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("Failed to close engine", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Optional randomized order feeder
	var feed *feeder.Feeder
	if cfg.Feeder.Enabled {
		feed = feeder.New(engine, feeder.Config{
			Interval:   cfg.Feeder.Interval,
			BasePrice:  decimal.NewFromFloat(cfg.Feeder.BasePrice),
			SeedLevels: cfg.Feeder.SeedLevels,
		})
		feed.Seed()
		feed.Start()
		defer feed.Stop()

		logger.Info("Order feeder started", map[string]interface{}{
			"interval": cfg.Feeder.Interval.String(),
		})
	}

	// Setup routes with middleware
	engineHolder := handlers.NewEngineHolder(engine)
	handler := routes.SetupRoutes(engineHolder, routes.Options{
		StreamInterval: cfg.API.StreamInterval,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":    cfg.Server.Port,
			"address": fmt.Sprintf("http://localhost:%s", cfg.Server.Port),
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("Server exited successfully", nil)
}

// buildTradeStore constructs the trade store layers based on configuration.
// Layers are write-through mirrors of the engine's in-process trade log;
// the book itself is never restored from them.
func buildTradeStore(cfg *config.Config) storage.TradeStore {
	var stores []storage.TradeStore

	// L1: In-memory buffer (fastest) - if enabled
	if cfg.Memory.Enabled {
		stores = append(stores, memory.NewTradeStore(cfg.Memory.MaxTrades))
		logger.Info("In-memory trade buffer enabled", map[string]interface{}{
			"max_trades": cfg.Memory.MaxTrades,
		})
	}

	// L2: Redis (distributed cache) - if enabled
	if cfg.Redis.Enabled {
		redisStore, err := redis.NewTradeStore(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			TLSEnabled:   cfg.Redis.TLSEnabled,
			MaxTrades:    cfg.Redis.MaxTrades,
		})
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without distributed cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			stores = append(stores, redisStore)
			logger.Info("Redis trade mirror connected", map[string]interface{}{
				"host": cfg.Redis.Host,
				"port": cfg.Redis.Port,
			})
		}
	}

	// L3: PostgreSQL (trade archive) - if enabled
	if cfg.Database.Enabled {
		pgStore, err := postgres.NewTradeStore(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			MaxConns:        cfg.Database.MaxConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			SSLMode:         cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Warn("Failed to connect to PostgreSQL, continuing without trade archive", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			stores = append(stores, pgStore)
			logger.Info("PostgreSQL trade archive connected", map[string]interface{}{
				"host":     cfg.Database.Host,
				"database": cfg.Database.Name,
			})
		}
	}

	// L4: Kafka trade publisher - if enabled
	if cfg.Kafka.Enabled {
		stores = append(stores, kafka.NewTradePublisher(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}))
		logger.Info("Kafka trade publisher enabled", map[string]interface{}{
			"topic": cfg.Kafka.Topic,
		})
	}

	// L5: File audit log - always enabled
	if fileStore, err := file.NewTradeStore(cfg.Engine.TradeLogPath); err == nil {
		stores = append(stores, fileStore)
		logger.Info("Trade file log enabled", map[string]interface{}{
			"path": cfg.Engine.TradeLogPath,
		})
	} else {
		logger.Warn("Failed to open trade file log", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Trade store layers initialized", map[string]interface{}{
		"layers": len(stores),
	})

	if len(stores) == 1 {
		return stores[0]
	}
	return storage.NewCompositeTradeStore(stores...)
}
