package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/1ou/danton/internal/ingest"
	"github.com/1ou/danton/internal/search"
	"github.com/1ou/danton/internal/server"
	"github.com/1ou/danton/internal/tokenizer"
	"github.com/1ou/danton/pkg/config"
	"github.com/1ou/danton/pkg/health"
	"github.com/1ou/danton/pkg/kafka"
	"github.com/1ou/danton/pkg/logger"
	"github.com/1ou/danton/pkg/metrics"
	"github.com/1ou/danton/pkg/middleware"
	"github.com/1ou/danton/pkg/postgres"
	pkgredis "github.com/1ou/danton/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	tok, err := tokenizer.New(cfg.Index.Tokenizer)
	if err != nil {
		slog.Error("invalid tokenizer config", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	pgClient, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()
	source := ingest.NewPostgresSource(pgClient)

	engine := search.NewEngine(tok, cfg.Search.MergeStepBudget)
	rebuilder := ingest.NewRebuilder(source, engine, tok, m, cfg.Index.RebuildDebounce)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rebuilder.Rebuild(ctx); err != nil {
		slog.Error("initial index build failed, serving without segment", "error", err)
	}

	var queryCache *server.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = server.NewQueryCache(redisClient, cfg.Redis.CacheTTL)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.DocumentAccepted)
	defer producer.Close()
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.DocumentAccepted,
		ingest.HandleAccepted(rebuilder))

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := source.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("segment", func(ctx context.Context) health.ComponentHealth {
		seg := engine.Segment()
		if seg == nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: "no segment built"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d docs, %d terms", seg.DocCount(), seg.TermCount()),
		}
	})

	h := server.New(engine, queryCache, source, rebuilder, producer, m,
		cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("search service listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return consumer.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if shutdownMetrics != nil {
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("search service error", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}
