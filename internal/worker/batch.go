package worker

import (
	"context"
	"time"

	"github.com/ppiankov/tweetlens/internal/model"
	"github.com/ppiankov/tweetlens/internal/query"
)

// Evaluator runs a single query against a collection that is already
// loaded. Implementations must be safe for concurrent use.
type Evaluator interface {
	Evaluate(ctx context.Context, q query.Query) (*model.Report, error)
}

// QueryJob evaluates one query of a batch
type QueryJob struct {
	Index     int
	Query     query.Query
	Evaluator Evaluator
	Limiter   *Limiter
}

// Execute waits for the limiter, then evaluates the query
func (j *QueryJob) Execute(ctx context.Context) Result {
	if err := j.Limiter.Wait(ctx); err != nil {
		return &QueryResult{Index: j.Index, Query: j.Query, Error: err}
	}

	report, err := j.Evaluator.Evaluate(ctx, j.Query)
	return &QueryResult{
		Index:  j.Index,
		Query:  j.Query,
		Report: report,
		Error:  err,
	}
}

// QueryResult is the outcome of one batch query
type QueryResult struct {
	Index  int
	Query  query.Query
	Report *model.Report
	Error  error
}

// GetError returns the evaluation error
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many queries concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. requestsPerSecond <= 0
// disables throttling.
func NewBatchProcessor(evaluator Evaluator, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
	}
}

// ProcessQueries evaluates queries and returns one result per query, in
// the same order as queries. Queries that never ran because ctx was
// cancelled carry ctx's error.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []query.Query) []*QueryResult {
	ordered := make([]*QueryResult, len(queries))
	if len(queries) == 0 {
		return ordered
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, q := range queries {
			job := &QueryJob{
				Index:     i,
				Query:     q,
				Evaluator: b.evaluator,
				Limiter:   b.limiter,
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	for result := range pool.Results() {
		r := result.(*QueryResult)
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		ordered[i] = &QueryResult{
			Index:  i,
			Query:  queries[i],
			Report: &model.Report{Query: queries[i].String(), Op: queries[i].Op, GeneratedAt: time.Now()},
			Error:  err,
		}
	}

	return ordered
}
