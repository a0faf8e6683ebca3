package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"homecalc/repository"
)

// resultCache stores JSON-encoded calculator results keyed by a hash of the input.
type resultCache struct {
	cache  repository.CacheRepository
	ttl    time.Duration
	logger logrus.FieldLogger
}

func cacheKey(kind string, input any) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%016x", kind, xxhash.Sum64(data)), nil
}

// load decodes a cached result into out and reports whether it was found.
func (c resultCache) load(ctx context.Context, key string, out any) bool {
	if c.cache == nil || key == "" {
		return false
	}
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("discarding undecodable cache entry")
		return false
	}
	return true
}

func (c resultCache) store(ctx context.Context, key string, value any) {
	if c.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).Warn("failed to encode result for cache")
		return
	}
	if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("failed to cache result")
	}
}
