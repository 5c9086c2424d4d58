// Package redis provides a Redis-backed wizard-step draft store. Each session
// is one hash (field = step, value = payload JSON) that expires as a whole
// after the configured TTL of inactivity.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/labor"
)

const (
	// Redis key prefix for draft sessions
	sessionKeyPrefix = "wage:draft:"

	// Hash field holding the last write time of a session
	updatedAtField = "_updated_at"
)

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
}

// Connect creates a client from a redis:// URL and pings it.
func Connect(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// =============================================================================
// DRAFT STORE
// =============================================================================

var _ drafts.Store = (*DraftStore)(nil)

// DraftStore implements drafts.Store. Every write refreshes the session TTL,
// and UpdatedAt on a loaded draft is the last write to any step of the session.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore constructs a Redis-backed draft store. A zero ttl keeps
// sessions forever.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string { return sessionKeyPrefix + sessionID }

// Save writes the step and refreshes the session expiry in one transaction.
func (s *DraftStore) Save(ctx context.Context, d drafts.StepDraft) error {
	key := sessionKey(d.SessionID)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, string(d.Step), string(d.Payload), updatedAtField, now)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *DraftStore) Load(ctx context.Context, sessionID string, step drafts.Step) (drafts.StepDraft, error) {
	key := sessionKey(sessionID)
	values, err := s.client.HMGet(ctx, key, string(step), updatedAtField).Result()
	if err != nil {
		return drafts.StepDraft{}, err
	}
	payload, ok := values[0].(string)
	if !ok {
		return drafts.StepDraft{}, labor.ErrDraftNotFound
	}

	d := drafts.StepDraft{SessionID: sessionID, Step: step, Payload: json.RawMessage(payload)}
	if at, ok := values[1].(string); ok {
		d.UpdatedAt, _ = time.Parse(time.RFC3339Nano, at)
	}
	return d, nil
}

func (s *DraftStore) List(ctx context.Context, sessionID string) ([]drafts.StepDraft, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	updatedAt, _ := time.Parse(time.RFC3339Nano, fields[updatedAtField])
	out := make([]drafts.StepDraft, 0, len(fields))
	for field, payload := range fields {
		step := drafts.Step(field)
		if !step.Valid() {
			continue
		}
		out = append(out, drafts.StepDraft{
			SessionID: sessionID,
			Step:      step,
			Payload:   json.RawMessage(payload),
			UpdatedAt: updatedAt,
		})
	}
	drafts.SortSteps(out)
	return out, nil
}

func (s *DraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
