package discovery

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zero-day-ai/failspec/spec"
)

// RedisOptions configures the Redis connection for a shared ledger.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// KeyPrefix namespaces the ledger keys. Defaults to "failspec". Use one
	// prefix per feature to keep ledgers separate.
	KeyPrefix string

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisStore implements Store on Redis: an INCR counter for the sequence, a
// JSON record per discovery, and a sorted set ordering the ids. Multiple
// processes can share one ledger; INCR keeps the ids collision-free.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed ledger store with the given options.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "failspec"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: opts.KeyPrefix}, nil
}

func (s *RedisStore) seqKey() string {
	return s.prefix + ":ledger:seq"
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":ledger:ids"
}

func (s *RedisStore) recordKey(id string) string {
	return s.prefix + ":discovery:" + id
}

// NextSequence reserves and returns the next sequence number via INCR.
func (s *RedisStore) NextSequence(ctx context.Context) (int, error) {
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance ledger sequence: %w", err)
	}
	return int(seq), nil
}

// Save writes a discovery record and indexes its id by sequence.
func (s *RedisStore) Save(ctx context.Context, d *spec.Discovery) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("discovery requires an id")
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal discovery %s: %w", d.ID, err)
	}

	seq, ok := sequenceOf(d.ID)
	if !ok {
		return fmt.Errorf("invalid discovery id: %s", d.ID)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.recordKey(d.ID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(seq), Member: d.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save discovery %s: %w", d.ID, err)
	}
	return nil
}

// Get returns the discovery with the given id, or nil if absent.
func (s *RedisStore) Get(ctx context.Context, id string) (*spec.Discovery, error) {
	data, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get discovery %s: %w", id, err)
	}

	var d spec.Discovery
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal discovery %s: %w", id, err)
	}
	return &d, nil
}

// List returns all discoveries in sequence order.
func (s *RedisStore) List(ctx context.Context) ([]*spec.Discovery, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger ids: %w", err)
	}

	out := make([]*spec.Discovery, 0, len(ids))
	for _, id := range ids {
		d, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
