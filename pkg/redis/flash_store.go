package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// FlashData is a one-shot payload stashed for the next rendered view after a
// redirect: an error flag/message and optional field-level validation errors.
type FlashData struct {
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// FlashStore keeps flash payloads in Redis, keyed by a per-visitor flash ID.
// Payloads are consumed on read.
type FlashStore struct {
	ttl time.Duration
}

var (
	setFlashValue    = Set
	getDelFlashValue = GetDel
)

// NewFlashStore creates a flash store whose entries expire after ttl even if
// never consumed.
func NewFlashStore(ttl time.Duration) *FlashStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FlashStore{ttl: ttl}
}

// Put stores the payload for the given flash ID, replacing any previous one.
func (s *FlashStore) Put(ctx context.Context, flashID string, data *FlashData) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return setFlashValue(ctx, "flash:"+flashID, jsonData, s.ttl)
}

// Pop retrieves and removes the payload for the given flash ID. Returns
// (nil, nil) when nothing is flashed.
func (s *FlashStore) Pop(ctx context.Context, flashID string) (*FlashData, error) {
	raw, err := getDelFlashValue(ctx, "flash:"+flashID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var data FlashData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return &data, nil
}
