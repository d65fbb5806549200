// Package store records per-clip outcomes for the asynchronous ingress path,
// so callers that enqueued work can look up how it went.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clipforge/config"
	"clipforge/pipeline"
)

// Clip processing states visible to status lookups.
const (
	StateProcessing = "processing"
	StateDone       = "done"
)

// ClipStatus is the stored record for one clip: its state and, once
// finished, the batch-shaped outcome.
type ClipStatus struct {
	State   string                     `json:"state"`
	Outcome *pipeline.BatchItemOutcome `json:"outcome,omitempty"`
}

// OutcomeStore keeps clip statuses in Redis with a fixed TTL.
type OutcomeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewOutcomeStore connects to Redis at addr. password may be empty.
func NewOutcomeStore(addr, password string, db int) *OutcomeStore {
	return &OutcomeStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: config.OutcomeTTL,
	}
}

func outcomeKey(clipID string) string {
	return "clip:" + clipID + ":status"
}

// MarkProcessing records that a worker picked up the clip.
func (s *OutcomeStore) MarkProcessing(ctx context.Context, clipID string) error {
	return s.set(ctx, clipID, &ClipStatus{State: StateProcessing})
}

// Save records the final outcome for a clip.
func (s *OutcomeStore) Save(ctx context.Context, outcome pipeline.BatchItemOutcome) error {
	return s.set(ctx, outcome.ClipID, &ClipStatus{State: StateDone, Outcome: &outcome})
}

// Get returns the stored status for a clip, or nil if none is recorded.
func (s *OutcomeStore) Get(ctx context.Context, clipID string) (*ClipStatus, error) {
	data, err := s.rdb.Get(ctx, outcomeKey(clipID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read clip status: %w", err)
	}

	var status ClipStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("decode clip status: %w", err)
	}
	return &status, nil
}

// Ping verifies connectivity, for health checks at startup.
func (s *OutcomeStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (s *OutcomeStore) Close() error {
	return s.rdb.Close()
}

func (s *OutcomeStore) set(ctx context.Context, clipID string, status *ClipStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode clip status: %w", err)
	}
	if err := s.rdb.Set(ctx, outcomeKey(clipID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("write clip status: %w", err)
	}
	return nil
}
