package watcher

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/telegram-wallapop-bot/internal/money"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type seenKey struct {
	listingID string
	chatID    int64
}

// memStore is an in-memory Store for watcher tests.
type memStore struct {
	mu      sync.Mutex
	subs    []storage.Subscription
	seen    map[seenKey]storage.SeenItem
	updates int
}

func newMemStore(subs ...storage.Subscription) *memStore {
	return &memStore{subs: subs, seen: make(map[seenKey]storage.SeenItem)}
}

func (m *memStore) ListActiveSubscriptions(ctx context.Context) ([]storage.Subscription, error) {
	var out []storage.Subscription
	for _, s := range m.subs {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) FindSeenItem(ctx context.Context, listingID string, chatID int64) (*storage.SeenItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.seen[seenKey{listingID, chatID}]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memStore) PutSeenItem(ctx context.Context, item storage.SeenItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[seenKey{item.ListingID, item.ChatID}] = item
	return nil
}

func (m *memStore) UpdateSeenItem(ctx context.Context, listingID string, chatID int64, price, priceHistory string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := seenKey{listingID, chatID}
	item, ok := m.seen[key]
	if !ok {
		return storage.ErrNotFound
	}
	item.Price = price
	item.PriceHistory = priceHistory
	m.seen[key] = item
	m.updates++
	return nil
}

// senderMock is a testify mock of BotSender.
type senderMock struct {
	mock.Mock
}

func (m *senderMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

// fakeSearcher serves canned results per keyword string.
type fakeSearcher struct {
	results map[string][]wallapop.Listing
	errs    map[string]error
	panics  map[string]bool
	seller  *wallapop.SellerInfo
	calls   []string
}

func (f *fakeSearcher) Search(ctx context.Context, params wallapop.SearchParams) ([]wallapop.Listing, error) {
	f.calls = append(f.calls, params.Keywords)
	if f.panics[params.Keywords] {
		panic("boom")
	}
	if err := f.errs[params.Keywords]; err != nil {
		return nil, err
	}
	return f.results[params.Keywords], nil
}

func (f *fakeSearcher) Seller(ctx context.Context, listing wallapop.Listing) (*wallapop.SellerInfo, error) {
	return f.seller, nil
}

func testFormatter(t *testing.T) *money.Formatter {
	t.Helper()
	f, err := money.NewFormatter("en-US", "€")
	require.NoError(t, err)
	return f
}

func listing(id, title string, price int64) wallapop.Listing {
	return wallapop.Listing{
		ID:      id,
		Title:   title,
		Price:   wallapop.Price{Amount: decimal.NewFromInt(price), Currency: "EUR"},
		WebSlug: id + "-slug",
		UserID:  "seller-" + id,
	}
}
