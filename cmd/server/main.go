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

	router "github.com/vmeet/signaling/internal/adapters/http"
	"github.com/vmeet/signaling/internal/app"
	"github.com/vmeet/signaling/internal/app/orch"
	"github.com/vmeet/signaling/internal/config"
	"github.com/vmeet/signaling/internal/journal"
	"github.com/vmeet/signaling/internal/roster"
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
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := roster.Open(cfg.RosterPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open roster store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("roster store close")
		}
	}()

	var pub journal.Publisher = journal.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := journal.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("journal close")
			}
		}()
		pub = kp
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("presence journal enabled")
	}

	reg := app.NewRegistry()
	rooms := app.NewRoomManager()
	limiter := orch.NewJoinLimiter(cfg.JoinLimit, cfg.JoinInterval)
	o := orch.New(reg, rooms, pub, limiter)

	r := router.SetupRouter(ctx, cfg, o, store)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("signaling server started")
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
