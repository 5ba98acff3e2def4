package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/analysis"

	"github.com/go-redis/redis/v8"
)

// Persister keeps view state snapshots beyond the lifetime of the in-memory
// store, so a viewer evicted for idleness gets the last result back.
type Persister interface {
	Load(ctx context.Context, id string) (analysis.ViewState, bool, error)
	Save(ctx context.Context, id string, state analysis.ViewState) error
	Delete(ctx context.Context, id string) error
}

// RedisPersister stores snapshots as JSON under session:<id>:view.
type RedisPersister struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPersister(rdb *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{rdb: rdb, ttl: ttl}
}

func viewKey(id string) string {
	return "session:" + id + ":view"
}

func (p *RedisPersister) Load(ctx context.Context, id string) (analysis.ViewState, bool, error) {
	data, err := p.rdb.Get(ctx, viewKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return analysis.ViewState{}, false, nil
	}
	if err != nil {
		return analysis.ViewState{}, false, fmt.Errorf("load session %s: %w", id, err)
	}

	var state analysis.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return analysis.ViewState{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, true, nil
}

func (p *RedisPersister) Save(ctx context.Context, id string, state analysis.ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := p.rdb.Set(ctx, viewKey(id), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (p *RedisPersister) Delete(ctx context.Context, id string) error {
	return p.rdb.Del(ctx, viewKey(id)).Err()
}
