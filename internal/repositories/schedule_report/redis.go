package schedulereport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-trainer/internal/redis"
)

const (
	// Key pattern: schedule_report:{fingerprint}
	keyPrefix  = "schedule_report:"
	DefaultTTL = 24 * time.Hour

	errFingerprintEmpty = "fingerprint cannot be empty"

	scanBatch = 100
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock

	// TTL applied when PutInput.TTL is zero
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed outcome cache
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Fingerprint == "" {
		return nil, errors.InvalidArgument(errFingerprintEmpty)
	}
	if input.Outcome == nil {
		return nil, errors.InvalidArgument("outcome cannot be nil")
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = r.ttl
	}

	now := r.clock.Now()
	entry := &Entry{
		Fingerprint: input.Fingerprint,
		Solver:      input.Solver,
		Outcome:     input.Outcome,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal schedule report")
	}

	if err := r.client.Set(ctx, buildKey(input.Fingerprint), data, ttl).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store schedule report in Redis")
	}

	return &PutOutput{Entry: entry}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Fingerprint == "" {
		return nil, errors.InvalidArgument(errFingerprintEmpty)
	}

	key := buildKey(input.Fingerprint)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if stderrors.Is(err, redisclient.Nil) {
			return nil, errors.NotFound("schedule report not cached").
				WithMeta("fingerprint", input.Fingerprint)
		}
		return nil, errors.Wrap(err, "failed to get schedule report from Redis")
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal schedule report")
	}

	if r.clock.Now().After(entry.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound("schedule report has expired").
			WithMeta("fingerprint", input.Fingerprint)
	}

	return &GetOutput{Entry: &entry}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Fingerprint == "" {
		return nil, errors.InvalidArgument(errFingerprintEmpty)
	}

	n, err := r.client.Del(ctx, buildKey(input.Fingerprint)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete schedule report from Redis")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

func (r *redisRepository) Purge(ctx context.Context, input PurgeInput) (*PurgeOutput, error) {
	out := &PurgeOutput{}

	iter := r.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		out.Scanned++

		if input.CorruptOnly {
			data, err := r.client.Get(ctx, key).Bytes()
			if err != nil {
				if stderrors.Is(err, redisclient.Nil) {
					continue
				}
				return nil, errors.Wrapf(err, "failed to read %s", key)
			}
			var entry Entry
			if json.Unmarshal(data, &entry) == nil && entry.Outcome.Consistent() == nil {
				continue
			}
		}

		n, err := r.client.Del(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to delete %s", key)
		}
		out.Deleted += int(n)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan schedule reports")
	}

	slog.Info("Purged report cache",
		"scanned", out.Scanned,
		"deleted", out.Deleted,
		"corrupt_only", input.CorruptOnly,
	)

	return out, nil
}

func buildKey(fingerprint string) string {
	return keyPrefix + fingerprint
}
