package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/raine/telegram-wallapop-bot/internal/storage/migrations"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a record to delete or update does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSubscriptionExists is returned when a chat already has a subscription
	// with the same keywords.
	ErrSubscriptionExists = errors.New("subscription already exists")
)

// Subscription is a saved search polled on behalf of a chat.
type Subscription struct {
	ID               string
	ChatID           int64
	Keywords         string // Space separated, matched as a set
	MinPrice         string // Empty means no lower bound
	MaxPrice         string // Empty means no upper bound
	CategoryIDs      string // Comma separated, empty means any category
	Distance         string
	SortOrder        string
	OwnerUsername    string
	OwnerDisplayName string
	Active           bool
	CreatedAt        time.Time
}

// SeenItem records the lowest price at which a listing has been announced to a chat.
type SeenItem struct {
	ListingID    string
	ChatID       int64
	Title        string
	Price        string // Decimal text, never increases
	Slug         string
	SellerID     string
	PriceHistory string // Earlier prices, most recent first, separated by " < "
	FirstSeenAt  time.Time
	UpdatedAt    time.Time
}

// Store defines the persistence operations used by the bot and the watcher.
type Store interface {
	CreateSubscription(ctx context.Context, sub *Subscription) error
	DeleteSubscription(ctx context.Context, chatID int64, keywords string) error
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	ListSubscriptionsByChat(ctx context.Context, chatID int64) ([]Subscription, error)
	CountSubscriptionsByChat(ctx context.Context, chatID int64) (int, error)
	ListActiveSubscriptions(ctx context.Context) ([]Subscription, error)

	FindSeenItem(ctx context.Context, listingID string, chatID int64) (*SeenItem, error)
	PutSeenItem(ctx context.Context, item SeenItem) error
	UpdateSeenItem(ctx context.Context, listingID string, chatID int64, price, priceHistory string) error

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the SQLite database at dbPath and applies pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Configure SQLite with WAL mode and busy timeout for better concurrency
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Set file permissions (only meaningful once the file exists)
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		db.Close()
		return nil, fmt.Errorf("failed to set database permissions: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
