package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/bidsum/internal/api"
	"github.com/mtlprog/bidsum/internal/auction"
	"github.com/mtlprog/bidsum/internal/config"
	"github.com/mtlprog/bidsum/internal/database"
	"github.com/mtlprog/bidsum/internal/external"
	"github.com/mtlprog/bidsum/internal/ingest"
	"github.com/mtlprog/bidsum/internal/price"
	"github.com/mtlprog/bidsum/internal/summary"
	"github.com/mtlprog/bidsum/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "keep the auction book and rates fresh and serve summaries over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: cfg.HTTPPort, EnvVars: []string{"HTTP_PORT"}},
		},
		Action: func(c *cli.Context) error {
			cfg.HTTPPort = c.String("port")
			return serve(c.Context, cfg)
		},
	}
}

func serve(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Exchange rates
	ratesClient := external.NewRatesClient(cfg.RatesURL, cfg.RatesRetryDelay, cfg.RatesRetryMax)
	rateRepo := external.NewPgRateRepository(pool)
	ratesSvc := external.NewService(ratesClient, rateRepo, cfg.RateStaleThreshold)
	priceSvc := price.NewService(ratesSvc)

	// Auction book
	loader, err := bookLoader(ctx, cfg, auction.NewPgRepository(pool))
	if err != nil {
		return err
	}
	book := auction.NewBook(nil)

	rateWorker := worker.NewRateWorker(ratesSvc, cfg.RateWorkerInterval)
	go rateWorker.Run(ctx)

	bookWorker := worker.NewBookWorker(loader, priceSvc, book, cfg.BookWorkerInterval)
	go bookWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, rate refresh endpoint is unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, book, summary.NewAggregator(cfg.ShippingLabel), ratesSvc, cfg.AdminAPIKey)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
	return nil
}

// openDatabase connects to PostgreSQL and applies the embedded migrations.
func openDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pool, nil
}

// bookLoader picks the auction source: Google Sheets, then a workbook file, then the database.
func bookLoader(ctx context.Context, cfg config.Config, repo *auction.PgRepository) (worker.Loader, error) {
	switch {
	case cfg.SpreadsheetID != "":
		if cfg.GoogleCredentials == "" {
			return nil, errors.New("GOOGLE_CREDENTIALS_JSON is required with GOOGLE_SPREADSHEET_ID")
		}
		loader, err := ingest.NewSheetsLoader(ctx, cfg.SpreadsheetID, cfg.SpreadsheetRange, cfg.GoogleCredentials)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets loader: %w", err)
		}
		slog.Info("loading auctions from Google Sheets", "spreadsheet", cfg.SpreadsheetID)
		return loader, nil
	case cfg.EntriesFile != "":
		slog.Info("loading auctions from workbook", "file", cfg.EntriesFile)
		return ingest.NewXLSXLoader(cfg.EntriesFile, cfg.EntriesSheet), nil
	default:
		return repo, nil
	}
}
