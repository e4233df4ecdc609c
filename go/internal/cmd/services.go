package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/laliga/go/internal/draft"
	"github.com/mcdev12/laliga/go/internal/leagueconfig"
	"github.com/mcdev12/laliga/go/internal/leagues"
	"github.com/mcdev12/laliga/go/internal/outbox"
	"github.com/mcdev12/laliga/go/internal/seed"
	"github.com/rs/zerolog/log"
)

type Services struct {
	League  *leagues.App
	Outbox  *outbox.App
	Worker  *outbox.Worker
	Metrics *outbox.Counters

	clock     clockwork.Clock
	listenDSN string
	closers   []func() error
}

func setupServices(ctx context.Context, cfg Config, clock clockwork.Clock) (svc *Services, err error) {
	svc = &Services{Metrics: &outbox.Counters{}, clock: clock}
	defer func() {
		if err != nil {
			_ = svc.Close()
		}
	}()

	// League: settings → roster → seeded league
	settings, err := leagueconfig.Load(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}
	roster, err := loadRoster(ctx, cfg)
	if err != nil {
		return nil, err
	}
	season := roster.Season
	if season == 0 {
		season = cfg.Season
	}

	rng := draft.NewRand()
	if cfg.LotterySeed != 0 {
		rng = rand.New(rand.NewSource(cfg.LotterySeed))
	}

	league := leagues.New(season,
		leagues.WithConfig(settings.LeagueConfig()),
		leagues.WithRand(rng),
		leagues.WithClock(clock),
	)
	res, err := seed.Apply(league, roster)
	if err != nil {
		return nil, fmt.Errorf("failed to seed league: %w", err)
	}
	for _, name := range res.Skipped {
		log.Warn().Str("player", name).Msg("player not seeded")
	}

	// Outbox: store → publisher → worker
	store, dsn, err := setupOutboxStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc.listenDSN = dsn
	svc.closers = append(svc.closers, store.Close)

	var publisher outbox.EventPublisher = outbox.LogPublisher{}
	if cfg.NATSURL != "" {
		jsCfg := outbox.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATSURL
		js, err := outbox.NewJetStreamPublisher(ctx, jsCfg, clock)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream publisher: %w", err)
		}
		svc.closers = append(svc.closers, js.Close)
		publisher = js
	}

	svc.Outbox = outbox.NewApp(store, clock)
	svc.Worker = outbox.NewWorker(store,
		outbox.NewMetricPublisher(publisher, svc.Metrics, clock),
		outbox.DefaultConfig(),
		outbox.WithClock(clock),
		outbox.WithMetrics(svc.Metrics),
	)
	svc.League = leagues.NewApp(league, svc.Outbox)
	return svc, nil
}

// Flush publishes every event recorded so far
func (s *Services) Flush(ctx context.Context) error {
	n, err := s.Worker.Drain(ctx)
	snap := s.Metrics.Snapshot()
	log.Info().
		Int("published", n).
		Int64("failed", snap.Failed).
		Int64("lag", snap.Lag).
		Msg("outbox flushed")
	return err
}

// Relay publishes events as they are recorded until ctx is done. A postgres
// outbox is relayed on LISTEN/NOTIFY, anything else on the worker's poll.
func (s *Services) Relay(ctx context.Context) error {
	if s.listenDSN != "" {
		lcfg := outbox.DefaultListenerConfig()
		lcfg.DSN = s.listenDSN
		l, err := outbox.NewListener(s.Worker, lcfg, s.clock)
		if err != nil {
			return err
		}
		return l.Run(ctx)
	}

	if err := s.Worker.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Worker.Stop()
}

func (s *Services) Close() error {
	var errs []error
	for _, closeFn := range slices.Backward(s.closers) {
		errs = append(errs, closeFn())
	}
	s.closers = nil
	return errors.Join(errs...)
}
