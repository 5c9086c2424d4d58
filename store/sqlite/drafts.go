package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/labor"
)

// =============================================================================
// DRAFT STORE
// =============================================================================

var _ drafts.Store = (*Store)(nil)

// Fixed width so updated_at compares correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Save upserts the payload of one wizard step.
func (s *Store) Save(ctx context.Context, d drafts.StepDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO drafts (session_id, step, payload_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, step) DO UPDATE SET
			payload_json = excluded.payload_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(timestampLayout)
	_, err := s.db.ExecContext(ctx, query, d.SessionID, string(d.Step), string(d.Payload), now)
	return err
}

// Load retrieves one step, or labor.ErrDraftNotFound.
func (s *Store) Load(ctx context.Context, sessionID string, step drafts.Step) (drafts.StepDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload, updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload_json, updated_at FROM drafts WHERE session_id = ? AND step = ?",
		sessionID, string(step),
	).Scan(&payload, &updatedAt)

	if err == sql.ErrNoRows {
		return drafts.StepDraft{}, labor.ErrDraftNotFound
	}
	if err != nil {
		return drafts.StepDraft{}, err
	}

	d := drafts.StepDraft{SessionID: sessionID, Step: step, Payload: json.RawMessage(payload)}
	d.UpdatedAt, _ = time.Parse(timestampLayout, updatedAt)
	return d, nil
}

// List returns the saved steps of a session in wizard order.
func (s *Store) List(ctx context.Context, sessionID string) ([]drafts.StepDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT step, payload_json, updated_at FROM drafts WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []drafts.StepDraft
	for rows.Next() {
		var step, payload, updatedAt string
		if err := rows.Scan(&step, &payload, &updatedAt); err != nil {
			return nil, err
		}
		d := drafts.StepDraft{SessionID: sessionID, Step: drafts.Step(step), Payload: json.RawMessage(payload)}
		d.UpdatedAt, _ = time.Parse(timestampLayout, updatedAt)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	drafts.SortSteps(out)
	return out, nil
}

// Delete drops every step of a session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE session_id = ?", sessionID)
	return err
}

// PurgeBefore deletes drafts not touched since cutoff and reports how many
// rows went.
func (s *Store) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM drafts WHERE updated_at < ?",
		cutoff.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
