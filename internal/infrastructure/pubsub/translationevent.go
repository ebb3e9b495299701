package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/shared/goroutine"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

const (
	translationEventChannel = "verbatim:translation:event"
	defaultDrainTimeout     = 30 * time.Second
)

// TranslationEventHandler is called once per received event.
type TranslationEventHandler func(ctx context.Context, event *notification.Event)

// TranslationEventPublisher defines the interface for publishing translation events
type TranslationEventPublisher interface {
	Publish(ctx context.Context, event *notification.Event) error
}

// TranslationEventSubscriber defines the interface for subscribing to translation events
type TranslationEventSubscriber interface {
	Subscribe(ctx context.Context, handler TranslationEventHandler) error
}

// RedisTranslationEventBus carries translation events between the
// translation service and notification workers over Redis Pub/Sub.
type RedisTranslationEventBus struct {
	client       *redis.Client
	logger       logger.Interface
	drainTimeout time.Duration
	inflight     sync.WaitGroup
}

func NewRedisTranslationEventBus(client *redis.Client, logger logger.Interface) *RedisTranslationEventBus {
	return &RedisTranslationEventBus{
		client:       client,
		logger:       logger,
		drainTimeout: defaultDrainTimeout,
	}
}

// SetDrainTimeout bounds how long Subscribe waits for running handlers
// once its context is done.
func (b *RedisTranslationEventBus) SetDrainTimeout(d time.Duration) {
	b.drainTimeout = d
}

// Publish assigns an ID and timestamp when missing and publishes event.
func (b *RedisTranslationEventBus) Publish(ctx context.Context, event *notification.Event) error {
	data, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, translationEventChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish translation event",
			"event_id", event.ID,
			"kind", event.Kind,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("translation event published",
		"event_id", event.ID,
		"kind", event.Kind,
	)
	return nil
}

// Subscribe blocks until ctx is done, reconnecting with backoff when the
// subscription drops. Each event is handled in its own goroutine. Before
// returning, Subscribe waits up to the drain timeout for running handlers.
func (b *RedisTranslationEventBus) Subscribe(ctx context.Context, handler TranslationEventHandler) error {
	defer b.drain()

	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("translation event subscription disconnected, reconnecting",
			"channel", translationEventChannel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisTranslationEventBus) subscribe(ctx context.Context, handler TranslationEventHandler) error {
	pubsub := b.client.Subscribe(ctx, translationEventChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", translationEventChannel, err)
	}

	b.logger.Infow("subscribed to translation events",
		"channel", translationEventChannel,
	)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("translation event subscriber stopped",
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("translation event channel closed")
				return nil
			}

			event, err := DecodeEvent([]byte(msg.Payload))
			if err != nil {
				b.logger.Warnw("dropping malformed translation event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			b.handle(event, handler)
		}
	}
}

// handle runs handler detached from the subscriber context so shutdown
// does not cut a delivery in half; drain waits for it.
func (b *RedisTranslationEventBus) handle(event *notification.Event, handler TranslationEventHandler) {
	b.inflight.Add(1)
	goroutine.SafeGo(b.logger, "translation-event-"+event.ID, func() {
		defer b.inflight.Done()
		handler(context.Background(), event)
	})
}

// drain waits for running handlers, at most drainTimeout.
func (b *RedisTranslationEventBus) drain() {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(b.drainTimeout):
		b.logger.Warnw("translation event handlers still running at shutdown",
			"timeout", b.drainTimeout,
		)
	}
}

// EncodeEvent validates event, fills ID and Timestamp when unset and
// returns its wire form.
func EncodeEvent(event *notification.Event) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("event is nil")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UTC().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// DecodeEvent parses and validates a wire event.
func DecodeEvent(data []byte) (*notification.Event, error) {
	var event notification.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}
