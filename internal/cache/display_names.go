// Package cache keeps organizer display names in an expiring in-process cache
// so query results can be enriched without a profile lookup per row.
package cache

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Shivanand-hulikatti/conference-booking/internal/telemetry"
)

// FetchFunc loads display names for user ids missing from the cache.
// Unknown ids are simply absent from the result.
type FetchFunc func(ctx context.Context, userIDs []string) (map[string]string, error)

// DisplayNames is a read-through cache of userID -> display name.
type DisplayNames struct {
	cache *gocache.Cache
	fetch FetchFunc
}

// NewDisplayNames builds the cache. A zero ttl keeps entries until evicted
// by Forget.
func NewDisplayNames(fetch FetchFunc, ttl, cleanupInterval time.Duration) *DisplayNames {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &DisplayNames{
		cache: gocache.New(ttl, cleanupInterval),
		fetch: fetch,
	}
}

// Lookup returns the display names for userIDs, fetching misses in one call.
func (d *DisplayNames) Lookup(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	var missing []string
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if v, found := d.cache.Get(id); found {
			if name, ok := v.(string); ok {
				names[id] = name
				telemetry.DisplayNameCacheTotal.WithLabelValues("hit").Inc()
				continue
			}
			slog.Error("wrong type in display name cache", "user_id", id)
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return names, nil
	}

	telemetry.DisplayNameCacheTotal.WithLabelValues("miss").Add(float64(len(missing)))
	fetched, err := d.fetch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, name := range fetched {
		d.cache.SetDefault(id, name)
		names[id] = name
	}
	return names, nil
}

// Forget drops a cached name, e.g. after the profile was renamed.
func (d *DisplayNames) Forget(userID string) {
	d.cache.Delete(userID)
}
