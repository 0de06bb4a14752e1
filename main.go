package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/office-pulse/catalog"
	"github.com/danielhkuo/office-pulse/cliparse"
	"github.com/danielhkuo/office-pulse/db"
	"github.com/danielhkuo/office-pulse/handlers"
	"github.com/danielhkuo/office-pulse/metrics"
	"github.com/danielhkuo/office-pulse/middleware"
	"github.com/danielhkuo/office-pulse/router"
)

func main() {
	var err error

	// .env is optional; real environment variables win
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the ledger database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Spent form nonces only matter while their tokens could still be accepted
	pruned, err := db.NewLedger(dbConn).PruneNonces(context.Background(), time.Now().Add(-handlers.FormTokenMaxAge))
	if err != nil {
		slog.Warn("failed to prune form nonces", "error", err)
	} else if pruned > 0 {
		slog.Info("Pruned spent form nonces", "count", pruned)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog loaded",
		"office_types", len(cat.OfficeTypes),
		"services", len(cat.Services),
		"moods", len(cat.Moods),
	)

	// Create router
	mux := router.NewRouter(dbConn, cfg, cat, metrics.New())

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Long enough for the IP lookup, insert and session insert in sequence
		WriteTimeout: 3*cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "supabase", cfg.SupabaseURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
