package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LookupSearch returns a cached search payload stored within maxAge.
// A maxAge of zero or less disables expiry.
func (s *Store) LookupSearch(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, nil
	}
	var (
		payload  []byte
		storedAt string
	)
	err := s.db.QueryRowContext(ctx, `SELECT payload, stored_at FROM search_cache WHERE cache_key = ?`, key).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup search cache: %w", err)
	}
	if maxAge > 0 {
		stored, parseErr := parseTimeString(storedAt)
		if parseErr != nil || time.Since(stored) > maxAge {
			return nil, false, nil
		}
	}
	return payload, true, nil
}

// StoreSearch upserts a search payload under key.
func (s *Store) StoreSearch(ctx context.Context, key string, payload []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO search_cache (cache_key, payload, stored_at) VALUES (?, ?, ?)
         ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at`,
		key,
		payload,
		time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("store search cache: %w", err)
	}
	return nil
}

// PruneSearches deletes cache entries older than maxAge and returns how many were removed.
func (s *Store) PruneSearches(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(timestampLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_cache WHERE stored_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune search cache: %w", err)
	}
	return res.RowsAffected()
}
