// Package main runs the lending protocol indexer: the websocket feed client
// applying decoded chain events to the ledger, and the JSON read API plus
// Prometheus metrics on top of it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wildanre/ponder-etherlink/internal/event"
	"github.com/wildanre/ponder-etherlink/internal/feed"
	"github.com/wildanre/ponder-etherlink/internal/httpapi"
	"github.com/wildanre/ponder-etherlink/internal/observability"
	"github.com/wildanre/ponder-etherlink/internal/query"
	"github.com/wildanre/ponder-etherlink/internal/storage"
	chstore "github.com/wildanre/ponder-etherlink/internal/storage/clickhouse"
	"github.com/wildanre/ponder-etherlink/internal/storage/memory"
	"github.com/wildanre/ponder-etherlink/internal/storage/migrations"
	pgstore "github.com/wildanre/ponder-etherlink/internal/storage/postgres"
)

type stores struct {
	pools      storage.PoolStore
	positions  storage.PositionStore
	activities storage.ActivityStore
	senders    storage.TokenSenderStore
	streams    storage.DataStreamStore
	archive    event.Archiver // nil without ClickHouse
}

func main() {
	loadEnvFile()

	feedEndpoint := flag.String("feed-endpoint", os.Getenv("FEED_WS_ENDPOINT"), "Decoded event feed websocket endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional archive)")
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "Read API listen address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics listen address")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	migrate := flag.Bool("migrate", true, "Run schema migrations on startup")
	flag.Parse()

	logger := observability.NewLogger("server")

	if *feedEndpoint == "" {
		logger.Fatal().Msg("--feed-endpoint is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal().Msg("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := buildStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatal().Err(err).Msg("store setup failed")
	}
	defer cleanup()

	mapper := event.NewMapper(event.MapperOptions{
		Pools:     st.pools,
		Positions: st.positions,
		Ledger:    st.activities,
		Senders:   st.senders,
		Streams:   st.streams,
		Archive:   st.archive,
		Logger:    observability.NewLogger("mapper"),
	})

	svc := query.NewService(st.pools, st.positions, st.activities, observability.NewLogger("query"))
	api := httpapi.NewServer(svc, observability.NewLogger("http"))

	apiServer := &http.Server{
		Addr:              *listenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", observability.Handler())
	metricsServer := &http.Server{
		Addr:              *metricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 3)

	go func() {
		logger.Info().Str("addr", *listenAddr).Msg("read API listening")
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		logger.Info().Str("addr", *metricsAddr).Msg("metrics listening")
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()
	go func() {
		client := feed.NewClient(feed.DefaultConfig(*feedEndpoint), mapper, observability.NewLogger("feed"))
		if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("feed client: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("component failed, shutting down")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("api shutdown")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("metrics shutdown")
	}
	logger.Info().Msg("shutdown complete")
}

// buildStores wires the configured backends. Memory mode serves tests and
// local runs; production uses postgres with an optional ClickHouse archive.
func buildStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (*stores, func(), error) {
	if useMemory {
		return &stores{
			pools:      memory.NewPoolStore(),
			positions:  memory.NewPositionStore(),
			activities: memory.NewActivityStore(),
			senders:    memory.NewTokenSenderStore(),
			streams:    memory.NewDataStreamStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	st := &stores{
		pools:      pgstore.NewPoolStore(pool),
		positions:  pgstore.NewPositionStore(pool),
		activities: pgstore.NewActivityStore(pool),
		senders:    pgstore.NewTokenSenderStore(pool),
		streams:    pgstore.NewDataStreamStore(pool),
	}
	cleanup := func() { pool.Close() }

	if clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if migrate {
			if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
				conn.Close()
				pool.Close()
				return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
			}
		}
		st.archive = chstore.NewActivityArchive(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}

	return st, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads KEY=VALUE pairs from a local .env file if present.
// Existing environment variables win.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
