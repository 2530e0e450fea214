package watcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func sub(id string, chatID int64, keywords string) storage.Subscription {
	return storage.Subscription{ID: id, ChatID: chatID, Keywords: keywords, Active: true}
}

func TestPoll_FailingSubscriptionDoesNotBlockOthers(t *testing.T) {
	for _, name := range []string{"error", "panic"} {
		t.Run(name, func(t *testing.T) {
			store := newMemStore(sub("a", 1, "ps5"), sub("b", 2, "bici"))
			searcher := &fakeSearcher{
				results: map[string][]wallapop.Listing{"bici": {listing("L1", "Bici carretera", 200)}},
				errs:    map[string]error{},
				panics:  map[string]bool{},
			}
			if name == "panic" {
				searcher.panics["ps5"] = true
			} else {
				searcher.errs["ps5"] = errors.New("403 forbidden")
			}

			tg := new(senderMock)
			tg.On("Send", mock.MatchedBy(func(msg tgbotapi.MessageConfig) bool {
				return msg.ChatID == 2 && strings.Contains(msg.Text, "Bici carretera")
			})).Return(tgbotapi.Message{}, nil).Once()

			s := NewService(store, searcher, tg, testFormatter(t), Options{}, nil)
			s.Poll(context.Background())

			assert.Equal(t, []string{"ps5", "bici"}, searcher.calls)
			tg.AssertExpectations(t)
		})
	}
}

func TestPoll_NotifiesOnlyMatchingAndChangedListings(t *testing.T) {
	store := newMemStore(sub("a", 1, "iphone 12"))
	searcher := &fakeSearcher{
		results: map[string][]wallapop.Listing{"iphone 12": {
			listing("L1", "iPhone 12 64GB", 300),
			listing("L2", "iPhone 13", 400),
		}},
	}

	tg := new(senderMock)
	tg.On("Send", mock.MatchedBy(func(msg tgbotapi.MessageConfig) bool {
		return msg.ChatID == 1 && strings.HasPrefix(msg.Text, "🎯") && strings.Contains(msg.Text, "L1-slug")
	})).Return(tgbotapi.Message{}, nil).Once()

	s := NewService(store, searcher, tg, testFormatter(t), Options{}, nil)
	s.Poll(context.Background())

	// Same results again: nothing new to report
	s.Poll(context.Background())

	// Price drop on the second tick after that
	searcher.results["iphone 12"] = []wallapop.Listing{listing("L1", "iPhone 12 64GB", 280)}
	tg.On("Send", mock.MatchedBy(func(msg tgbotapi.MessageConfig) bool {
		return msg.ChatID == 1 && strings.Contains(msg.Text, "💥 280.00 € < 300.00 € 💥")
	})).Return(tgbotapi.Message{}, nil).Once()
	s.Poll(context.Background())

	tg.AssertExpectations(t)
}

func TestPoll_SellerLookup(t *testing.T) {
	store := newMemStore(sub("a", 1, "bici"))
	searcher := &fakeSearcher{
		results: map[string][]wallapop.Listing{"bici": {listing("L1", "Bici", 50)}},
		seller:  &wallapop.SellerInfo{ReviewCount: 0},
	}

	tg := new(senderMock)
	tg.On("Send", mock.MatchedBy(func(msg tgbotapi.MessageConfig) bool {
		return strings.Contains(msg.Text, "Sin valoraciones")
	})).Return(tgbotapi.Message{}, nil).Once()

	s := NewService(store, searcher, tg, testFormatter(t), Options{SellerLookup: true}, nil)
	s.Poll(context.Background())

	tg.AssertExpectations(t)
}

func TestPoll_SkipsInactiveSubscriptions(t *testing.T) {
	inactive := sub("a", 1, "bici")
	inactive.Active = false
	store := newMemStore(inactive)
	searcher := &fakeSearcher{}

	s := NewService(store, searcher, new(senderMock), testFormatter(t), Options{}, nil)
	s.Poll(context.Background())

	assert.Empty(t, searcher.calls)
}

func TestSearchParamsFor(t *testing.T) {
	s := storage.Subscription{
		Keywords:    "ps5 digital",
		MinPrice:    "100",
		MaxPrice:    "300",
		CategoryIDs: "12900",
		Distance:    "5000",
		SortOrder:   "newest",
	}

	assert.Equal(t, wallapop.SearchParams{
		Keywords:    "ps5 digital",
		CategoryIDs: "12900",
		MinPrice:    "100",
		MaxPrice:    "300",
		Distance:    "5000",
		OrderBy:     "newest",
	}, SearchParamsFor(s))
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := newMemStore()
	s := NewService(store, &fakeSearcher{}, new(senderMock), testFormatter(t), Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	<-done
}
