package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"showcase/internal/ai"
	"showcase/internal/api"
	"showcase/internal/db"
)

const serverVersion = "0.1.0-dev"

func main() {
	_ = godotenv.Load()

	var (
		port   = flag.String("port", envOr("SHOWCASE_PORT", "8000"), "HTTP listen port")
		dbPath = flag.String("db", envOr("SHOWCASE_DB", "./showcase.db"), "path to SQLite database")
		noSeed = flag.Bool("no-seed", false, "skip seeding the default project catalog")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	database, err := db.Open(*dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	if err := db.ApplyMigrations(database); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}
	if !*noSeed {
		if err := db.SeedDefaultProjects(context.Background(), database); err != nil {
			logger.Fatal().Err(err).Msg("seed projects")
		}
	}

	insights := ai.NewFromEnv()
	if !insights.Configured() {
		logger.Warn().Msg("SHOWCASE_AI_API_KEY not set; /api/ai/insights will return 503")
	}

	handler := api.NewRouter(database, insights, serverVersion, logger)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().Str("addr", server.Addr).Msg("showcase-server listening")
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
	<-shutdownDone
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
