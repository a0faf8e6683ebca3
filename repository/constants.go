package repository

import "time"

const (
	DefaultHistoryLimit = 1000
	DefaultCacheTTL     = 24 * time.Hour

	DefaultCacheMaxEntries = 10_000
	cacheSweepInterval     = time.Minute

	cacheKeyPrefix = "homecalc:"
)
