package order

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// FulfillerConfig sets the polling interval and the status delays
type FulfillerConfig struct {
	Interval        time.Duration
	ProcessingDelay time.Duration
	CompletionDelay time.Duration
}

// Fulfiller advances orders through pending -> processing -> completed
// by polling the store. Transitions derive from persisted timestamps,
// so orders placed before a restart are still picked up.
type Fulfiller struct {
	store    Store
	notifier Notifier
	cfg      FulfillerConfig
}

func NewFulfiller(store Store, notifier Notifier, cfg FulfillerConfig) *Fulfiller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Fulfiller{store: store, notifier: notifier, cfg: cfg}
}

// Run polls until ctx is cancelled
func (f *Fulfiller) Run(ctx context.Context) {
	log.Info().
		Dur("interval", f.cfg.Interval).
		Dur("processing_delay", f.cfg.ProcessingDelay).
		Dur("completion_delay", f.cfg.CompletionDelay).
		Msg("fulfillment worker started")

	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("fulfillment worker stopped")
			return
		case <-ticker.C:
			f.Tick(ctx)
		}
	}
}

// Tick runs one advancement pass
func (f *Fulfiller) Tick(ctx context.Context) {
	now := time.Now()

	started, err := f.store.AdvanceDuePending(ctx, now.Add(-f.cfg.ProcessingDelay))
	if err != nil {
		log.Error().Err(err).Msg("advance pending orders")
	} else {
		f.broadcast(started)
	}

	completed, err := f.store.AdvanceDueProcessing(ctx, now.Add(-f.cfg.CompletionDelay))
	if err != nil {
		log.Error().Err(err).Msg("advance processing orders")
	} else {
		f.broadcast(completed)
	}
}

func (f *Fulfiller) broadcast(orders []Order) {
	for _, o := range orders {
		log.Info().
			Str("order_id", o.ID.String()).
			Str("status", string(o.Status)).
			Msg("order status advanced")
		if f.notifier != nil {
			f.notifier.NotifyOrderStatus(o.UserID, o.ID, string(o.Status))
		}
	}
}
