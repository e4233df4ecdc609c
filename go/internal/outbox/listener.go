package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type ListenerConfig struct {
	DSN              string        // Postgres DSN for LISTEN/NOTIFY
	Channel          string        // Channel name to LISTEN on
	FallbackInterval time.Duration // How often to poll for missed events
	PingInterval     time.Duration
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		Channel:          NotifyChannel,
		FallbackInterval: 30 * time.Second,
		PingInterval:     90 * time.Second,
	}
}

// notifier is the part of *pq.Listener the relay loop uses
type notifier interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Listener drains the outbox as soon as Postgres reports a new event, with a
// fallback poll for notifications lost while disconnected.
type Listener struct {
	notifier notifier
	worker   *Worker
	cfg      ListenerConfig
	clock    clockwork.Clock
}

func NewListener(worker *Worker, cfg ListenerConfig, clock clockwork.Clock) (*Listener, error) {
	l := pq.NewListener(
		cfg.DSN,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.Channel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.Channel).
		Msg("listening for notifications")

	return newListener(l, worker, cfg, clock), nil
}

func newListener(n notifier, worker *Worker, cfg ListenerConfig, clock clockwork.Clock) *Listener {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Listener{notifier: n, worker: worker, cfg: cfg, clock: clock}
}

// Run relays events until ctx is done, then closes the listener
func (l *Listener) Run(ctx context.Context) error {
	log.Info().
		Str("channel", l.cfg.Channel).
		Dur("ping_interval", l.cfg.PingInterval).
		Dur("fallback_interval", l.cfg.FallbackInterval).
		Msg("listener started")

	pingTicker := l.clock.NewTicker(l.cfg.PingInterval)
	fallbackTicker := l.clock.NewTicker(l.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	// Catch up on anything recorded before we started listening
	l.drain(ctx, "startup")

	notifications := l.notifier.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("listener shutting down")
			return l.notifier.Close()
		case note := <-notifications:
			if note == nil {
				// connection was lost and re-established; notifications may be missing
				l.drain(ctx, "reconnect")
				continue
			}
			l.drain(ctx, note.Extra)
		case <-fallbackTicker.Chan():
			l.drain(ctx, "fallback")
		case <-pingTicker.Chan():
			if err := l.notifier.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

func (l *Listener) drain(ctx context.Context, trigger string) {
	n, err := l.worker.Drain(ctx)
	if err != nil {
		log.Error().Err(err).Str("trigger", trigger).Msg("failed to drain outbox")
		return
	}
	if n > 0 {
		log.Debug().Int("published", n).Str("trigger", trigger).Msg("outbox drained")
	}
}
