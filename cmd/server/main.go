package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/ecolive50-hue/backend/internal/adapters/http"
	"github.com/ecolive50-hue/backend/internal/app"
	"github.com/ecolive50-hue/backend/internal/config"
	"github.com/ecolive50-hue/backend/internal/core"
	"github.com/ecolive50-hue/backend/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	// All room and coin state lives in memory; the store is only
	// pinged so a broken URI is visible at boot, not ignored forever.
	if err := store.Check(ctx, cfg.StoreURI); err != nil {
		log.Error().Err(err).Msg("store unreachable")
	} else {
		log.Info().Msg("store connected")
	}

	orch := &app.Orchestrator{
		Rooms:  app.NewRoomRegistry(),
		Ledger: core.NewUserLedger(),
		Hub:    app.NewBroadcastHub(),
	}

	r := router.SetupRouter(ctx, cfg, orch)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("live room server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
