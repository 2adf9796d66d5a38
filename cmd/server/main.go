package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"airspace-service/internal/domain/repository"
	"airspace-service/internal/infrastructure/config"
	"airspace-service/internal/infrastructure/messaging"
	"airspace-service/internal/infrastructure/persistence"
	"airspace-service/internal/interface/api"
	repoimpl "airspace-service/internal/interface/repository"
	"airspace-service/internal/usecase"
	"airspace-service/pkg/logger"
	"airspace-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Airspace Service", "version", cfg.AppVersion, "store", cfg.StoreDriver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the flight store
	flightRepo, err := openFlightStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open flight store", "driver", cfg.StoreDriver, "error", err)
	}
	if err := flightRepo.Initialize(ctx); err != nil {
		log.Fatal("Failed to initialize flight store", "driver", cfg.StoreDriver, "error", err)
	}

	// Set up event publishing
	var eventRepo repository.FlightEventRepository = repoimpl.NewNoopFlightEventRepository()
	if cfg.NATSURL != "" {
		log.Info("Connecting to NATS", "url", cfg.NATSURL, "subject", cfg.NATSSubject)
		conn, err := messaging.NewNATSConn(cfg.NATSURL, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", "error", err)
		}
		eventRepo = repoimpl.NewNATSFlightEventRepository(conn, cfg.NATSSubject, log)
	}

	// Set up metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.MetricsNamespace, reg)

	flightService := usecase.NewFlightService(flightRepo, eventRepo, m, log)
	apiServer := api.NewServer(flightService, log, m)

	router := apiServer.Router()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig.String())

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if err := eventRepo.Close(); err != nil {
		log.Error("Event publisher close error", "error", err)
	}
	if err := flightRepo.Close(); err != nil {
		log.Error("Flight store close error", "error", err)
	}

	log.Info("Airspace Service stopped")
}

// openFlightStore connects the backend named by STORE_DRIVER
func openFlightStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.FlightRecordRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		log.Info("Opening SQLite database", "path", cfg.SQLitePath)
		db, err := persistence.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repoimpl.NewSQLiteFlightRecordRepository(db), nil

	case config.DriverPostgres:
		log.Info("Connecting to PostgreSQL")
		db, err := persistence.NewPostgresDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return repoimpl.NewGormFlightRecordRepository(db), nil

	case config.DriverMongo:
		log.Info("Connecting to MongoDB", "database", cfg.MongoDB)
		client, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			return nil, err
		}
		return repoimpl.NewMongoFlightRecordRepository(client, persistence.GetDatabase(client, cfg.MongoDB)), nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
