package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const subscriptionColumns = `id, chat_id, keywords, min_price, max_price, category_ids, distance,
	sort_order, owner_username, owner_display_name, active, created_at`

// CreateSubscription stores a new subscription, filling in its ID and CreatedAt.
// Returns ErrSubscriptionExists if the chat already follows the same keywords.
func (s *SQLiteStore) CreateSubscription(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE chat_id = ? AND keywords = ?`,
		sub.ChatID, sub.Keywords,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if count > 0 {
		return ErrSubscriptionExists
	}

	sub.ID = uuid.New().String()
	sub.CreatedAt = time.Now()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ChatID, sub.Keywords,
		nullString(sub.MinPrice), nullString(sub.MaxPrice), nullString(sub.CategoryIDs),
		nullString(sub.Distance), nullString(sub.SortOrder),
		nullString(sub.OwnerUsername), nullString(sub.OwnerDisplayName),
		sub.Active, sub.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrSubscriptionExists
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// DeleteSubscription removes the chat's subscription whose keywords match exactly.
func (s *SQLiteStore) DeleteSubscription(ctx context.Context, chatID int64, keywords string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE chat_id = ? AND keywords = ?`,
		chatID, keywords,
	)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetSubscription retrieves a single subscription by ID.
// Returns nil, nil if it doesn't exist.
func (s *SQLiteStore) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// ListSubscriptionsByChat retrieves all subscriptions of a chat, oldest first.
func (s *SQLiteStore) ListSubscriptionsByChat(ctx context.Context, chatID int64) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySubscriptions(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE chat_id = ? ORDER BY created_at, rowid`,
		chatID,
	)
}

// ListActiveSubscriptions retrieves the active subscriptions of every chat (for polling).
func (s *SQLiteStore) ListActiveSubscriptions(ctx context.Context) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySubscriptions(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE active = 1 ORDER BY created_at, rowid`,
	)
}

// CountSubscriptionsByChat returns the number of subscriptions of a chat.
func (s *SQLiteStore) CountSubscriptionsByChat(ctx context.Context, chatID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE chat_id = ?`, chatID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	return count, nil
}

func (s *SQLiteStore) querySubscriptions(ctx context.Context, query string, args ...any) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}

	return subs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*Subscription, error) {
	var sub Subscription
	var minPrice, maxPrice, categoryIDs, distance, sortOrder, username, displayName sql.NullString
	err := row.Scan(
		&sub.ID, &sub.ChatID, &sub.Keywords,
		&minPrice, &maxPrice, &categoryIDs, &distance, &sortOrder,
		&username, &displayName, &sub.Active, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.MinPrice = minPrice.String
	sub.MaxPrice = maxPrice.String
	sub.CategoryIDs = categoryIDs.String
	sub.Distance = distance.String
	sub.SortOrder = sortOrder.String
	sub.OwnerUsername = username.String
	sub.OwnerDisplayName = displayName.String
	return &sub, nil
}
