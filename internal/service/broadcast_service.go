package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mpesa-payment-gateway/config"
	"mpesa-payment-gateway/internal/core/domain"

	"github.com/rs/zerolog"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that cannot
// keep up is dropped rather than allowed to stall publishers.
const subscriberBuffer = 16

// BroadcastServiceImpl implements ports.Broadcaster: an in-process fan-out
// registry feeding live event streams.
type BroadcastServiceImpl struct {
	cfg config.BroadcastConfig
	log zerolog.Logger

	mu   sync.Mutex
	subs map[string]*subscriber

	now func() time.Time
}

type subscriber struct {
	ch       chan []byte
	lastSeen time.Time
}

// NewBroadcastService creates a new BroadcastServiceImpl.
func NewBroadcastService(cfg config.BroadcastConfig, log zerolog.Logger) *BroadcastServiceImpl {
	return &BroadcastServiceImpl{
		cfg:  cfg,
		log:  log,
		subs: make(map[string]*subscriber),
		now:  time.Now,
	}
}

// Register adds a subscriber and returns its event channel. Registering an
// existing id replaces the old channel.
func (b *BroadcastServiceImpl) Register(id string) <-chan []byte {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	if old, ok := b.subs[id]; ok {
		close(old.ch)
	}
	b.subs[id] = &subscriber{ch: ch, lastSeen: b.now()}
	count := len(b.subs)
	b.mu.Unlock()

	b.log.Debug().Str("client_id", id).Int("subscribers", count).Msg("subscriber registered")
	return ch
}

// Unregister removes a subscriber and closes its channel.
func (b *BroadcastServiceImpl) Unregister(id string) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
		close(sub.ch)
	}
	count := len(b.subs)
	b.mu.Unlock()

	if ok {
		b.log.Debug().Str("client_id", id).Int("subscribers", count).Msg("subscriber unregistered")
	}
}

// Touch refreshes a subscriber's liveness deadline. Stream handlers call it
// on every heartbeat.
func (b *BroadcastServiceImpl) Touch(id string) {
	b.mu.Lock()
	if sub, ok := b.subs[id]; ok {
		sub.lastSeen = b.now()
	}
	b.mu.Unlock()
}

// Publish marshals the event once and offers it to every subscriber. A
// subscriber whose buffer is full is removed on the spot; the failure never
// propagates to the caller or the other subscribers.
func (b *BroadcastServiceImpl) Publish(event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.log.Error().Err(err).Str("event_type", string(event.Type)).Msg("event marshal failed")
		return
	}

	b.mu.Lock()
	var dropped []string
	for id, sub := range b.subs {
		select {
		case sub.ch <- data:
		default:
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		close(b.subs[id].ch)
		delete(b.subs, id)
	}
	b.mu.Unlock()

	for _, id := range dropped {
		b.log.Warn().Str("client_id", id).Msg("slow subscriber dropped")
	}
}

// SubscriberCount returns the number of live subscribers.
func (b *BroadcastServiceImpl) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Start runs the stale-subscriber sweeper until ctx is cancelled.
// Subscribers whose streams died without unregistering are reaped once
// their last heartbeat ages past the stale timeout.
func (b *BroadcastServiceImpl) Start(ctx context.Context) {
	interval := b.cfg.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweepStale()
		}
	}
}

func (b *BroadcastServiceImpl) sweepStale() {
	cutoff := b.now().Add(-b.cfg.StaleTimeout)

	b.mu.Lock()
	var stale []string
	for id, sub := range b.subs {
		if sub.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		close(b.subs[id].ch)
		delete(b.subs, id)
	}
	b.mu.Unlock()

	for _, id := range stale {
		b.log.Info().Str("client_id", id).Msg("stale subscriber reaped")
	}
}
