package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const (
	listenerInitialBackoff = 1 * time.Second
	listenerMaxBackoff     = 16 * time.Second
	updatesTimeout         = 60
)

// Backoff produces exponentially growing delays: Initial, then doubling up
// to Max. The zero value is not usable, use NewBackoff.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	current time.Duration
}

// NewBackoff returns the listener's restart backoff (1s doubling to 16s).
func NewBackoff() *Backoff {
	return &Backoff{Initial: listenerInitialBackoff, Max: listenerMaxBackoff}
}

// Next returns the next delay.
func (b *Backoff) Next() time.Duration {
	if b.current == 0 {
		b.current = b.Initial
	} else {
		b.current *= 2
	}
	if b.current > b.Max {
		b.current = b.Max
	}
	return b.current
}

// Reset starts the sequence over.
func (b *Backoff) Reset() {
	b.current = 0
}

// UpdateSource delivers Telegram updates. *tgbotapi.BotAPI implements it.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// UpdateHandler consumes updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type listener struct {
	source  UpdateSource
	handler UpdateHandler
	backoff *Backoff
	sleep   func(ctx context.Context, d time.Duration) bool
}

// RunListener feeds updates from source to handler until ctx is cancelled or
// the update channel closes. A crash while handling updates is logged and the
// loop restarts after a backoff delay.
func RunListener(ctx context.Context, source UpdateSource, handler UpdateHandler) error {
	l := &listener{
		source:  source,
		handler: handler,
		backoff: NewBackoff(),
		sleep:   sleepContext,
	}
	return l.run(ctx)
}

func (l *listener) run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesTimeout

	// The long-polling goroutine retries on its own, so the channel is
	// requested once and only the consuming side is restarted.
	updates := l.source.GetUpdatesChan(u)
	defer l.source.StopReceivingUpdates()

	log.Info().Msg("listening for telegram updates")

	for {
		stopped, err := l.consume(ctx, updates)
		if stopped {
			log.Info().Msg("telegram listener stopped")
			return nil
		}

		delay := l.backoff.Next()
		log.Error().Err(err).Dur("retryIn", delay).Msg("telegram listener crashed, restarting")
		if !l.sleep(ctx, delay) {
			return nil
		}
	}
}

// consume reads updates until the context ends, the channel closes or the
// handler panics. stopped is false only for a crash.
func (l *listener) consume(ctx context.Context, updates tgbotapi.UpdatesChannel) (stopped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			stopped = false
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case update, ok := <-updates:
			if !ok {
				return true, nil
			}
			l.handler.HandleUpdate(ctx, update)
			l.backoff.Reset()
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
