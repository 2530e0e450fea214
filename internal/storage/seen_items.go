package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// FindSeenItem looks up a listing already announced to a chat.
// Returns nil, nil if the listing hasn't been seen.
func (s *SQLiteStore) FindSeenItem(ctx context.Context, listingID string, chatID int64) (*SeenItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var item SeenItem
	var sellerID, priceHistory sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT listing_id, chat_id, title, price, slug, seller_id, price_history, first_seen_at, updated_at
		FROM seen_items WHERE listing_id = ? AND chat_id = ?`,
		listingID, chatID,
	).Scan(
		&item.ListingID, &item.ChatID, &item.Title, &item.Price, &item.Slug,
		&sellerID, &priceHistory, &item.FirstSeenAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query seen item: %w", err)
	}

	item.SellerID = sellerID.String
	item.PriceHistory = priceHistory.String
	return &item, nil
}

// PutSeenItem records the first sighting of a listing in a chat.
func (s *SQLiteStore) PutSeenItem(ctx context.Context, item SeenItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_items (listing_id, chat_id, title, price, slug, seller_id, price_history, first_seen_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ListingID, item.ChatID, item.Title, item.Price, item.Slug,
		nullString(item.SellerID), nullString(item.PriceHistory), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert seen item: %w", err)
	}

	return nil
}

// UpdateSeenItem stores a new lower price and the price history that led to it.
func (s *SQLiteStore) UpdateSeenItem(ctx context.Context, listingID string, chatID int64, price, priceHistory string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE seen_items SET price = ?, price_history = ?, updated_at = ?
		WHERE listing_id = ? AND chat_id = ?`,
		price, nullString(priceHistory), time.Now(), listingID, chatID,
	)
	if err != nil {
		return fmt.Errorf("failed to update seen item: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
