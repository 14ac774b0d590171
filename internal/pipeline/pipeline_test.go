package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/tweetlens/internal/logging"
	"github.com/ppiankov/tweetlens/internal/model"
	"github.com/ppiankov/tweetlens/internal/query"
)

const collectionJSON = `[
  {"id": 1, "author": "alyssa", "text": "is it reasonable to talk about rivest so much?", "timestamp": "2016-02-17T10:00:00Z"},
  {"id": 2, "author": "bbitdiddle", "text": "rivest talk in 30 minutes #hype", "timestamp": "2016-02-17T11:00:00Z"},
  {"id": 3, "author": "charlie", "text": "hey @Alice &amp; @bob", "timestamp": "2016-02-17T12:00:00Z"}
]`

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.DiskDir = t.TempDir()
	cfg.Concurrency.Workers = 3
	return cfg
}

func writeCollection(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tweets.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipeline_Load(t *testing.T) {
	p := NewPipeline(testConfig(t), logging.Discard())

	tweets, err := p.Load(context.Background(), writeCollection(t, collectionJSON))
	require.NoError(t, err)
	require.Len(t, tweets, 3)
	assert.Equal(t, "hey @Alice & @bob", tweets[2].Text)
}

func TestPipeline_LoadWithoutCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = false
	p := NewPipeline(cfg, logging.Discard())

	_, err := p.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPipeline_Run(t *testing.T) {
	p := NewPipeline(testConfig(t), logging.Discard())
	path := writeCollection(t, collectionJSON)

	report, err := p.Run(context.Background(), path, query.MustParse("mentions"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, report.Mentions)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 3, report.TweetCount)
	assert.Equal(t, path, report.Source)

	report, err = p.Run(context.Background(), path, query.MustParse("timespan"))
	require.NoError(t, err)
	require.NotNil(t, report.Timespan)
	assert.Equal(t, 2*time.Hour, report.Timespan.Duration())
}

func TestPipeline_RunEmptyCollection(t *testing.T) {
	p := NewPipeline(testConfig(t), logging.Discard())
	path := writeCollection(t, `[]`)

	report, err := p.Run(context.Background(), path, query.MustParse("timespan"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
	require.NotNil(t, report)
	assert.True(t, report.HasError())

	report, err = p.Run(context.Background(), path, query.MustParse("containing rivest"))
	require.NoError(t, err)
	assert.Empty(t, report.Tweets)
}

func TestPipeline_RunBatch(t *testing.T) {
	p := NewPipeline(testConfig(t), logging.Discard())
	path := writeCollection(t, collectionJSON)

	queries := []query.Query{
		query.MustParse("timespan"),
		query.MustParse("written-by ALYSSA"),
		query.MustParse("containing"),
		query.MustParse("containing talk"),
		query.MustParse("in-timespan 2016-02-17T11:00:00Z 2016-02-17T12:00:00Z"),
	}

	results, err := p.RunBatch(context.Background(), path, queries)
	require.NoError(t, err)
	require.Len(t, results, len(queries))

	for i, r := range results {
		require.NoError(t, r.Error, queries[i].String())
		assert.Equal(t, queries[i].String(), r.Report.Query)
	}
	assert.Equal(t, 1, results[1].Report.Matched)
	assert.Equal(t, 0, results[2].Report.Matched)
	assert.Equal(t, 2, results[3].Report.Matched)
	assert.Equal(t, 2, results[4].Report.Matched)
}

func TestPipeline_RunBatchLoadError(t *testing.T) {
	p := NewPipeline(testConfig(t), logging.Discard())

	_, err := p.RunBatch(context.Background(), filepath.Join(t.TempDir(), "tweets.csv"), []query.Query{query.MustParse("mentions")})
	assert.Error(t, err)
}

func TestCollection_EvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewCollection("mem", nil).Evaluate(ctx, query.MustParse("mentions"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, report.HasError())
}

func TestPipeline_DiskCacheHonoursInputSettings(t *testing.T) {
	content := `[
  {"id": 1, "author": "tom", "text": "tom &amp; jerry", "timestamp": "2016-02-17T10:00:00Z"},
  {"id": 1, "author": "bad author", "text": "dup", "timestamp": "2016-02-17T11:00:00Z"}
]`
	path := writeCollection(t, content)
	cacheDir := t.TempDir()

	lax := model.DefaultConfig()
	lax.Cache.DiskDir = cacheDir
	lax.Input.UnescapeHTML = false
	lax.Input.Validate = false
	tweets, err := NewPipeline(lax, logging.Discard()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "tom &amp; jerry", tweets[0].Text)

	strict := model.DefaultConfig()
	strict.Cache.DiskDir = cacheDir
	_, err = NewPipeline(strict, logging.Discard()).Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
}
