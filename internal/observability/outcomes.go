package observability

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Outcome names one result of a reservation operation.
type Outcome string

const (
	OutcomeOffered   Outcome = "offered"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeCommitted Outcome = "committed"
	OutcomeConflict  Outcome = "conflict"
	OutcomeFailed    Outcome = "failed"
)

// OutcomeRecorder counts reservation outcomes. Recording is best-effort: callers
// log failures and carry on.
type OutcomeRecorder interface {
	Record(ctx context.Context, outcome Outcome, at time.Time) error
}

// MemoryOutcomes keeps counters in process memory. It never expires entries.
type MemoryOutcomes struct {
	mu     sync.Mutex
	counts map[Outcome]int64
}

// NewMemoryOutcomes creates an empty recorder.
func NewMemoryOutcomes() *MemoryOutcomes {
	return &MemoryOutcomes{counts: make(map[Outcome]int64)}
}

func (m *MemoryOutcomes) Record(_ context.Context, outcome Outcome, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[outcome]++
	return nil
}

// Count returns the number of recorded outcomes of one kind.
func (m *MemoryOutcomes) Count(outcome Outcome) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[outcome]
}

// RedisOutcomeStore keeps a cumulative hash plus per-minute buckets that expire.
type RedisOutcomeStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOutcomeOption configures a RedisOutcomeStore.
type RedisOutcomeOption func(*RedisOutcomeStore)

func WithOutcomePrefix(prefix string) RedisOutcomeOption {
	return func(s *RedisOutcomeStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithOutcomeTTL(d time.Duration) RedisOutcomeOption {
	return func(s *RedisOutcomeStore) { s.ttl = d }
}

// NewRedisOutcomeStore wraps an existing client.
func NewRedisOutcomeStore(rdb *redis.Client, opts ...RedisOutcomeOption) *RedisOutcomeStore {
	s := &RedisOutcomeStore{
		rdb:    rdb,
		prefix: "ghostnames:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisOutcomeStore) Record(ctx context.Context, outcome Outcome, at time.Time) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if at.IsZero() {
		at = time.Now()
	}

	bucketKey := s.BucketKey(at)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.TotalKey(), string(outcome), 1)
	pipe.HIncrBy(ctx, bucketKey, string(outcome), 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucketKey, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Totals reads the cumulative counters.
func (s *RedisOutcomeStore) Totals(ctx context.Context) (map[string]string, error) {
	return s.rdb.HGetAll(ctx, s.TotalKey()).Result()
}

// TotalKey is the hash holding cumulative counters.
func (s *RedisOutcomeStore) TotalKey() string {
	return s.prefix + ":total"
}

// BucketKey is the per-minute hash for at.
func (s *RedisOutcomeStore) BucketKey(at time.Time) string {
	return fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
}
