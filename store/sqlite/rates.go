package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/warp/wage-engine/statute"
)

// =============================================================================
// RATE VERSIONS
// =============================================================================

// SaveRates stores a validated rates version, replacing any version with the
// same effective date.
func (s *Store) SaveRates(ctx context.Context, r statute.Rates) error {
	if err := r.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(r.ToJSON())
	if err != nil {
		return fmt.Errorf("marshal rates: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rate_versions (effective_from, version, rates_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(effective_from) DO UPDATE SET
			version = excluded.version,
			rates_json = excluded.rates_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query,
		r.EffectiveFrom.Format("2006-01-02"), r.Version, string(doc), now, now,
	)
	return err
}

// ListRates returns every stored version, oldest first.
func (s *Store) ListRates(ctx context.Context) ([]statute.Rates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT rates_json FROM rate_versions ORDER BY effective_from",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []statute.Rates
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		r, err := statute.Parse([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("stored rates: %w", err)
		}
		versions = append(versions, r)
	}
	return versions, rows.Err()
}

// Table builds a rates table from the built-in defaults overlaid with every
// stored version. A stored version replaces a default with the same date.
func (s *Store) Table(ctx context.Context) (*statute.Table, error) {
	stored, err := s.ListRates(ctx)
	if err != nil {
		return nil, err
	}

	table := statute.DefaultTable()
	for _, r := range stored {
		if table, err = table.With(r); err != nil {
			return nil, err
		}
	}
	return table, nil
}
