// Package main initializes and starts the GophNotes HTTP server, setting up
// configuration, logging, the database, the optional cache, event
// publishing, services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	nethttp "net/http"

	"github.com/atinyakov/GophNotes/internal/auth"
	"github.com/atinyakov/GophNotes/internal/cache"
	"github.com/atinyakov/GophNotes/internal/config"
	"github.com/atinyakov/GophNotes/internal/db"
	"github.com/atinyakov/GophNotes/internal/enrich"
	"github.com/atinyakov/GophNotes/internal/events"
	"github.com/atinyakov/GophNotes/internal/logger"
	"github.com/atinyakov/GophNotes/internal/repository"
	"github.com/atinyakov/GophNotes/internal/server/handler/http"
	"github.com/atinyakov/GophNotes/internal/service"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	if _, err := maxprocs.Set(maxprocs.Logger(zapLogger.Sugar().Infof)); err != nil {
		zapLogger.Warn("failed to set GOMAXPROCS", zap.Error(err))
	}

	if options.JWTSecret == "" {
		zapLogger.Fatal("jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Optional collaborators shared by both services.
	opts := []service.Option{service.WithLogger(zapLogger)}

	if options.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, options.RedisAddr)
		if err != nil {
			zapLogger.Fatal("cannot connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		opts = append(opts, service.WithCache(cache.New(rdb, options.CacheTTL)))
		zapLogger.Info("read cache enabled", zap.String("redis", options.RedisAddr))
	}

	if options.EventsURL != "" {
		publisher, err := events.Open(ctx, options.EventsURL)
		if err != nil {
			zapLogger.Fatal("cannot open events topic", zap.Error(err))
		}
		defer func() {
			if err := publisher.Shutdown(context.Background()); err != nil {
				zapLogger.Warn("events shutdown", zap.Error(err))
			}
		}()
		opts = append(opts, service.WithEvents(publisher))
	}

	// Initialize repositories.
	noteRepo := repository.NewPostgresNoteRepository(postgresDB)
	bookmarkRepo := repository.NewPostgresBookmarkRepository(postgresDB)

	// Initialize business-logic services.
	titles := enrich.NewTitleFetcher(nil, options.EnrichTimeout, zapLogger)
	noteService := service.NewNoteService(noteRepo, opts...)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, titles, opts...)

	// Create HTTP handlers for notes and bookmarks.
	noteHandler := &http.NoteHandler{NoteService: noteService, Logger: zapLogger}
	bookmarkHandler := &http.BookmarkHandler{BookmarkService: bookmarkService, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(noteHandler, bookmarkHandler, auth.NewJWTVerifier(options.JWTSecret), zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Error("HTTP server failed", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), options.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
