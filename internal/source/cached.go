package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/tweetlens/internal/cache"
	"github.com/ppiankov/tweetlens/internal/metrics"
	"github.com/ppiankov/tweetlens/internal/model"
)

// CachedLoader memoizes decoded collections keyed by file identity.
// Cache failures are logged and never fail a load.
type CachedLoader struct {
	next    Loader
	cache   cache.Cache
	variant string
	logger  *slog.Logger
}

// NewCachedLoader wraps next with c. opts must be the settings next decodes
// with; entries written under other settings are never returned.
func NewCachedLoader(next Loader, c cache.Cache, opts model.InputConfig, logger *slog.Logger) *CachedLoader {
	return &CachedLoader{next: next, cache: c, variant: cacheVariant(opts), logger: logger}
}

func cacheVariant(opts model.InputConfig) string {
	return fmt.Sprintf("format=%s;unescape_html=%t;validate=%t",
		strings.ToLower(opts.Format), opts.UnescapeHTML, opts.Validate)
}

func (l *CachedLoader) Load(ctx context.Context, path string) ([]model.Tweet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat collection: %w", err)
	}
	key := cache.CollectionKey(path, info.ModTime(), info.Size(), l.variant)

	if data, ok := l.cache.Get(key); ok {
		var tweets []model.Tweet
		if err := json.Unmarshal(data, &tweets); err == nil {
			metrics.CacheHits.Inc()
			l.logger.Debug("collection cache hit", "path", path, "tweets", len(tweets))
			return tweets, nil
		}
		l.logger.Warn("dropping unreadable cache entry", "path", path)
		_ = l.cache.Delete(key)
	}
	metrics.CacheMisses.Inc()

	tweets, err := l.next.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(tweets)
	if err != nil {
		l.logger.Warn("encode collection for cache", "path", path, "error", err)
		return tweets, nil
	}
	if err := l.cache.Set(key, data, 0); err != nil {
		l.logger.Warn("store collection in cache", "path", path, "error", err)
	}

	return tweets, nil
}
