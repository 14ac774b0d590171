package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/tweetlens/internal/cache"
	"github.com/ppiankov/tweetlens/internal/metrics"
	"github.com/ppiankov/tweetlens/internal/model"
	"github.com/ppiankov/tweetlens/internal/query"
	"github.com/ppiankov/tweetlens/internal/source"
	"github.com/ppiankov/tweetlens/internal/worker"
)

// Pipeline loads tweet collections and evaluates queries against them
type Pipeline struct {
	loader   source.Loader
	renderer *Renderer
	config   *model.Config
	logger   *slog.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *slog.Logger) *Pipeline {
	var loader source.Loader = source.NewFileLoader(cfg.Input)
	if cfg.Cache.Enabled {
		c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
		loader = source.NewCachedLoader(loader, c, cfg.Input, logger)
	}

	return NewPipelineWithLoader(cfg, loader, logger)
}

// NewPipelineWithLoader creates a pipeline reading collections through loader
func NewPipelineWithLoader(cfg *model.Config, loader source.Loader, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		loader:   loader,
		renderer: NewRenderer(cfg.Output.Verbose),
		config:   cfg,
		logger:   logger,
	}
}

// Renderer returns the renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Load reads the collection at path
func (p *Pipeline) Load(ctx context.Context, path string) ([]model.Tweet, error) {
	start := time.Now()

	tweets, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	metrics.TweetsLoaded.Add(float64(len(tweets)))
	p.logger.Debug("collection loaded", "path", path, "tweets", len(tweets), "took", time.Since(start))

	return tweets, nil
}

// Run loads path and evaluates a single query. A query that fails (for
// example timespan over an empty collection) returns the error along with
// a report describing the failure.
func (p *Pipeline) Run(ctx context.Context, path string, q query.Query) (*model.Report, error) {
	tweets, err := p.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	return NewCollection(path, tweets).Evaluate(ctx, q)
}

// RunBatch loads path once and evaluates every query concurrently. Results
// are in the same order as queries.
func (p *Pipeline) RunBatch(ctx context.Context, path string, queries []query.Query) ([]*worker.QueryResult, error) {
	tweets, err := p.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	conc := p.config.Concurrency
	processor := worker.NewBatchProcessor(NewCollection(path, tweets), conc.Workers, conc.RequestsPerSecond, conc.BurstSize)

	p.logger.Debug("running batch", "queries", len(queries), "workers", conc.Workers, "rps", conc.RequestsPerSecond)
	return processor.ProcessQueries(ctx, queries), nil
}

// Collection is a loaded, read-only tweet collection. It is safe to
// evaluate queries against it from many goroutines.
type Collection struct {
	source string
	tweets []model.Tweet
}

// NewCollection wraps tweets read from source
func NewCollection(source string, tweets []model.Tweet) *Collection {
	return &Collection{source: source, tweets: tweets}
}

// Evaluate runs q and builds its report
func (c *Collection) Evaluate(ctx context.Context, q query.Query) (*model.Report, error) {
	start := time.Now()

	report := &model.Report{
		Query:       q.String(),
		Op:          q.Op,
		Source:      c.source,
		GeneratedAt: start.UTC(),
		TweetCount:  len(c.tweets),
	}

	if err := ctx.Err(); err != nil {
		report.Error = err.Error()
		return report, err
	}

	result, err := q.Run(c.tweets)
	metrics.ObserveQuery(q.Op, start, err)
	if err != nil {
		report.Error = err.Error()
		return report, fmt.Errorf("%s: %w", q, err)
	}

	report.Timespan = result.Timespan
	report.Mentions = result.Mentions
	report.Tweets = result.Tweets
	report.Matched = result.Matched()

	return report, nil
}
