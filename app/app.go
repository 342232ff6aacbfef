package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"flytxt-analytics/api"
	"flytxt-analytics/cache"
	"flytxt-analytics/config"
	"flytxt-analytics/database"
	"flytxt-analytics/ingest"
	"flytxt-analytics/realtime"
)

// App represents the main application
type App struct {
	config *config.Config
	db     *database.Database
	redis  *cache.RedisClient
	repo   *database.LogRepository
	bulk   *database.BulkLoader
	broker *realtime.Broker

	trendAnalyzer   *TrendAnalyzer
	periodicityAnal *PeriodicityAnalyzer
	anomalyDetector *AnomalyDetector
	correlationAnal *CorrelationAnalyzer
	summaryComposer *SummaryComposer
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
		db:     nil, // Will be initialized in Start()
		redis:  nil, // Will be initialized in Start()
	}
}

// Start starts the application
func (a *App) Start() error {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	// 2. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)

	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Caching disabled.")
	} else {
		a.redis = redisClient
	}

	// Initialize schema
	a.repo = database.NewLogRepository(a.db)
	if err := a.repo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 3. Bulk COPY connection for the big consolidated exports
	bulk, err := database.NewBulkLoader(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("bulk loader setup failed: %w", err)
	}
	a.bulk = bulk

	// Initialize Realtime Broker
	a.broker = realtime.NewBroker()

	// 4. Ingest existing exports, then watch for new ones
	watcher := ingest.NewWatcher(a.config.DataDir, a)
	if err := watcher.Backfill(); err != nil {
		log.Printf("⚠️  Backfill scan failed: %v", err)
	}
	if a.config.WatchEnabled {
		if err := watcher.Start(ctx); err != nil {
			log.Printf("⚠️  Export watcher disabled: %v", err)
		} else {
			log.Printf("👀 Watching %s for new exports", a.config.DataDir)
		}
	}

	// Setup WaitGroup for goroutines
	var wg sync.WaitGroup

	// 5. Optional live pipeline feed
	if a.config.FeedURL != "" {
		feed := ingest.NewFeedClient(a.config.FeedURL, a.repo)
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed.Run(ctx)
		}()
	} else {
		log.Println("ℹ️  Live pipeline feed DISABLED")
	}

	// 6. Start analyzers
	log.Println("🚀 Starting analytics loops...")

	a.trendAnalyzer = NewTrendAnalyzer(a.repo, a.config.Analysis)
	go a.trendAnalyzer.Start()

	a.periodicityAnal = NewPeriodicityAnalyzer(a.repo, a.config.Analysis)
	go a.periodicityAnal.Start()

	a.anomalyDetector = NewAnomalyDetector(a.repo, a.broker, a.config.Analysis)
	go a.anomalyDetector.Start()

	a.correlationAnal = NewCorrelationAnalyzer(a.repo, a.config.Analysis)
	go a.correlationAnal.Start()

	a.summaryComposer = NewSummaryComposer(a.repo, a.redis, a.broker, a.config.Analysis)
	go a.summaryComposer.Start()

	// 7. Start API Server
	apiServer := api.NewServer(a.repo, a.redis, a.broker, a.config.Analysis)
	go func() {
		if err := apiServer.Start(a.config.HTTPPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 8. Wait for interrupt and perform graceful shutdown
	err = a.gracefulShutdown(cancel)
	wg.Wait()
	return err
}

// IngestFile parses one export and streams it into Postgres through COPY
func (a *App) IngestFile(path string) error {
	start := time.Now()

	records, err := ingest.LoadFile(path)
	if err != nil {
		return err
	}
	if err := a.bulk.CopyRecords(records); err != nil {
		return err
	}

	log.Printf("✅ Loaded %d records from %s in %v", len(records), path, time.Since(start))
	return nil
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(cancel context.CancelFunc) error {
	// Setup signal handling
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	// Cancel context to stop all goroutines
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown tasks with timeout
	shutdownComplete := make(chan struct{})
	go func() {
		if a.trendAnalyzer != nil {
			fmt.Println("📈 Stopping trend analyzer...")
			a.trendAnalyzer.Stop()
		}
		if a.periodicityAnal != nil {
			fmt.Println("📅 Stopping periodicity analyzer...")
			a.periodicityAnal.Stop()
		}
		if a.anomalyDetector != nil {
			fmt.Println("🚨 Stopping anomaly detector...")
			a.anomalyDetector.Stop()
		}
		if a.correlationAnal != nil {
			fmt.Println("🔗 Stopping correlation analyzer...")
			a.correlationAnal.Stop()
		}
		if a.summaryComposer != nil {
			fmt.Println("📋 Stopping summary composer...")
			a.summaryComposer.Stop()
		}

		// Close bulk COPY connection
		if a.bulk != nil {
			if err := a.bulk.Close(); err != nil {
				log.Printf("Error closing bulk loader: %v", err)
			} else {
				fmt.Println("✅ Bulk loader closed")
			}
		}

		// Close database connection
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			} else {
				fmt.Println("✅ Database connection closed")
			}
		}

		// Close Redis connection
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	// Wait for shutdown to complete or timeout
	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}
