package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/raine/telegram-wallapop-bot/internal/metrics"
	"github.com/raine/telegram-wallapop-bot/internal/money"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultPollInterval is the pause between the end of one poll cycle and
	// the start of the next.
	DefaultPollInterval = 5 * time.Minute

	// StartupDelay lets the bot finish starting before the first poll.
	StartupDelay = 5 * time.Second
)

// Store is the persistence the watcher needs.
type Store interface {
	SeenStore
	ListActiveSubscriptions(ctx context.Context) ([]storage.Subscription, error)
}

// Searcher queries the marketplace.
type Searcher interface {
	Search(ctx context.Context, params wallapop.SearchParams) ([]wallapop.Listing, error)
	Seller(ctx context.Context, listing wallapop.Listing) (*wallapop.SellerInfo, error)
}

// Options configures a Service.
type Options struct {
	Interval     time.Duration
	StartupDelay time.Duration
	SellerLookup bool
	WebBaseURL   string
}

// Service is the background watcher service that polls every active
// subscription and notifies chats about new and cheaper listings.
type Service struct {
	store        Store
	searcher     Searcher
	detector     *Detector
	notifier     *Notifier
	metrics      *metrics.Collector
	interval     time.Duration
	startupDelay time.Duration
	sellerLookup bool
}

// NewService creates a new watcher service. m may be nil.
func NewService(store Store, searcher Searcher, bot BotSender, formatter *money.Formatter, opts Options, m *metrics.Collector) *Service {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	return &Service{
		store:        store,
		searcher:     searcher,
		detector:     NewDetector(store, formatter),
		notifier:     NewNotifier(bot, formatter, opts.WebBaseURL),
		metrics:      m,
		interval:     opts.Interval,
		startupDelay: opts.StartupDelay,
		sellerLookup: opts.SellerLookup,
	}
}

// Run starts the polling loop. It blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("starting watcher service")

	if !sleep(ctx, s.startupDelay) {
		return
	}

	for {
		s.Poll(ctx)

		// The interval is measured from the end of a cycle, so slow cycles
		// never overlap.
		if !sleep(ctx, s.interval) {
			log.Info().Msg("watcher service stopped")
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Poll executes one polling cycle over all active subscriptions.
func (s *Service) Poll(ctx context.Context) {
	log.Debug().Msg("starting poll cycle")

	subs, err := s.store.ListActiveSubscriptions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch subscriptions")
		return
	}

	for _, sub := range subs {
		if ctx.Err() != nil {
			return
		}
		if err := s.processSubscription(ctx, sub); err != nil {
			log.Error().
				Err(err).
				Str("subscriptionId", sub.ID).
				Int64("chatId", sub.ChatID).
				Str("keywords", sub.Keywords).
				Msg("subscription poll failed")
		}
	}

	s.metrics.RecordTick(len(subs))
	log.Debug().Int("subscriptions", len(subs)).Msg("poll cycle complete")
}

// processSubscription runs search, filter, detection and notification for
// one subscription. Panics are turned into errors so the cycle continues.
func (s *Service) processSubscription(ctx context.Context, sub storage.Subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	s.metrics.RecordSubscriptionPolled()

	listings, err := s.searcher.Search(ctx, SearchParamsFor(sub))
	if err != nil {
		s.metrics.RecordFetchFailure()
		return fmt.Errorf("search failed: %w", err)
	}

	matches := FilterByKeywords(listings, sub.Keywords)
	log.Debug().
		Int64("chatId", sub.ChatID).
		Str("keywords", sub.Keywords).
		Int("results", len(listings)).
		Int("matches", len(matches)).
		Msg("search completed")

	for _, listing := range matches {
		ev, err := s.detector.Classify(ctx, sub.ChatID, listing)
		if err != nil {
			log.Error().Err(err).Str("listingId", listing.ID).Int64("chatId", sub.ChatID).Msg("failed to classify listing")
			continue
		}
		if ev.Kind == Unchanged {
			continue
		}

		s.metrics.RecordEvent(ev.Kind.String())
		log.Info().
			Int64("chatId", sub.ChatID).
			Str("listingId", listing.ID).
			Str("kind", ev.Kind.String()).
			Msg("listing event")

		if err := s.notifier.Notify(ev, s.lookupSeller(ctx, listing)); err != nil {
			s.metrics.RecordSendFailure()
		}
	}

	return nil
}

// lookupSeller returns nil when lookups are disabled or fail.
func (s *Service) lookupSeller(ctx context.Context, listing wallapop.Listing) *wallapop.SellerInfo {
	if !s.sellerLookup || listing.UserID == "" {
		return nil
	}
	seller, err := s.searcher.Seller(ctx, listing)
	if err != nil {
		log.Warn().Err(err).Str("userId", listing.UserID).Msg("seller lookup failed")
		return nil
	}
	return seller
}

// SearchParamsFor builds the marketplace query of a subscription.
func SearchParamsFor(sub storage.Subscription) wallapop.SearchParams {
	return wallapop.SearchParams{
		Keywords:    sub.Keywords,
		CategoryIDs: sub.CategoryIDs,
		MinPrice:    sub.MinPrice,
		MaxPrice:    sub.MaxPrice,
		Distance:    sub.Distance,
		OrderBy:     sub.SortOrder,
	}
}
