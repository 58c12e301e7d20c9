package services

import (
	"context"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CaptchaStore keeps pending challenge answers until they are used or expire.
type CaptchaStore interface {
	Put(ctx context.Context, id, answer string, ttl time.Duration) error
	// Take returns the answer and removes it, so each challenge verifies at most once.
	Take(ctx context.Context, id string) (string, bool, error)
}

type redisCaptchaStore struct {
	rdb    *goredis.Client
	prefix string
}

func NewRedisCaptchaStore(rdb *goredis.Client, prefix string) CaptchaStore {
	if prefix == "" {
		prefix = "nodetree:captcha:"
	}
	return &redisCaptchaStore{rdb: rdb, prefix: prefix}
}

func (s *redisCaptchaStore) Put(ctx context.Context, id, answer string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+id, answer, ttl).Err()
}

func (s *redisCaptchaStore) Take(ctx context.Context, id string) (string, bool, error) {
	v, err := s.rdb.GetDel(ctx, s.prefix+id).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

type memoryCaptchaEntry struct {
	answer    string
	expiresAt time.Time
}

type memoryCaptchaStore struct {
	mu      sync.Mutex
	entries map[string]memoryCaptchaEntry
	now     func() time.Time
}

// NewMemoryCaptchaStore is the single-process fallback when Redis is not configured.
func NewMemoryCaptchaStore() CaptchaStore {
	return &memoryCaptchaStore{entries: map[string]memoryCaptchaEntry{}, now: time.Now}
}

func (s *memoryCaptchaStore) Put(_ context.Context, id, answer string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, k)
		}
	}
	s.entries[id] = memoryCaptchaEntry{answer: answer, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memoryCaptchaStore) Take(_ context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return "", false, nil
	}
	delete(s.entries, id)
	if !e.expiresAt.After(s.now()) {
		return "", false, nil
	}
	return e.answer, true, nil
}
