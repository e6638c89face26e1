package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Poll/internal/adapters/http"
	"github.com/dkeye/Poll/internal/app"
	"github.com/dkeye/Poll/internal/app/orch"
	"github.com/dkeye/Poll/internal/config"
	"github.com/dkeye/Poll/internal/events"
)

func setupLogger(mode, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if mode == "debug" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func newPublisher(cfg *config.Config) events.VotePublisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NopPublisher{}
	}
	p, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Error().Err(err).Str("module", "main").Msg("kafka publisher disabled")
		return events.NopPublisher{}
	}
	return p
}

func runServer(parent context.Context, env string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Console output until the configured format is known.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg.Mode, cfg.LogLevel)

	policy, err := app.PolicyByName(cfg.SlowPeer)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	clock := clockwork.NewRealClock()
	store := app.NewRoomStore(clock)
	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Str("module", "main").Msg("close publisher")
		}
	}()

	o := &orch.Orchestrator{
		Store:     store,
		Registry:  app.NewRegistry(),
		Limiter:   app.NewRateLimiter(clock, cfg.CreateLimit, cfg.CreateInterval),
		Publisher: publisher,
		Policy:    policy,
		Clock:     clock,
	}

	sweeper := app.NewSweeper(store, clock, cfg.SweepInterval, cfg.GraceWindow)
	sweeper.OnEvict(o.ForgetRooms)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.NewHandler(ctx, cfg, o),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("module", "main").Str("addr", addr).Msg("Poll server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("module", "main").Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Str("module", "main").Msg("Server forced to shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Str("module", "main").Msg("Server exited gracefully")
	return nil
}
