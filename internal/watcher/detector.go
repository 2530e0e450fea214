package watcher

import (
	"context"
	"fmt"

	"github.com/raine/telegram-wallapop-bot/internal/metrics"
	"github.com/raine/telegram-wallapop-bot/internal/money"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
)

// EventKind classifies a listing sighting.
type EventKind int

const (
	Unchanged EventKind = iota
	New
	PriceDrop
)

func (k EventKind) String() string {
	switch k {
	case New:
		return metrics.KindNew
	case PriceDrop:
		return metrics.KindPriceDrop
	default:
		return "unchanged"
	}
}

// annotationSeparator joins the earlier prices of a listing.
const annotationSeparator = " < "

// Event is the outcome of comparing a listing against what a chat has already seen.
type Event struct {
	Kind       EventKind
	ChatID     int64
	Listing    wallapop.Listing
	Annotation string // Earlier prices for PriceDrop, most recent first
}

// SeenStore is the part of the store the detector needs.
type SeenStore interface {
	FindSeenItem(ctx context.Context, listingID string, chatID int64) (*storage.SeenItem, error)
	PutSeenItem(ctx context.Context, item storage.SeenItem) error
	UpdateSeenItem(ctx context.Context, listingID string, chatID int64, price, priceHistory string) error
}

// Detector decides whether a listing is new, cheaper than before or unchanged
// for a chat, and records the outcome.
type Detector struct {
	store     SeenStore
	formatter *money.Formatter
}

func NewDetector(store SeenStore, formatter *money.Formatter) *Detector {
	return &Detector{store: store, formatter: formatter}
}

// Classify compares listing with the chat's seen item. Only a strictly lower
// price counts as a drop; the stored price never goes up.
func (d *Detector) Classify(ctx context.Context, chatID int64, listing wallapop.Listing) (Event, error) {
	ev := Event{Kind: Unchanged, ChatID: chatID, Listing: listing}

	stored, err := d.store.FindSeenItem(ctx, listing.ID, chatID)
	if err != nil {
		return ev, err
	}

	price := listing.Price.Amount.String()

	if stored == nil {
		err := d.store.PutSeenItem(ctx, storage.SeenItem{
			ListingID: listing.ID,
			ChatID:    chatID,
			Title:     listing.Title,
			Price:     price,
			Slug:      listing.WebSlug,
			SellerID:  listing.UserID,
		})
		if err != nil {
			return ev, err
		}
		ev.Kind = New
		return ev, nil
	}

	current, err := money.Parse(price)
	if err != nil {
		return ev, fmt.Errorf("listing %s: %w", listing.ID, err)
	}
	previous, err := money.Parse(stored.Price)
	if err != nil {
		return ev, fmt.Errorf("seen item %s: %w", listing.ID, err)
	}

	if !current.LessThan(previous) {
		return ev, nil
	}

	annotation := d.formatter.Format(previous)
	if stored.PriceHistory != "" {
		annotation += annotationSeparator + stored.PriceHistory
	}

	if err := d.store.UpdateSeenItem(ctx, listing.ID, chatID, price, annotation); err != nil {
		return ev, err
	}

	ev.Kind = PriceDrop
	ev.Annotation = annotation
	return ev, nil
}
