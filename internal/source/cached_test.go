package source

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/tweetlens/internal/cache"
	"github.com/ppiankov/tweetlens/internal/logging"
	"github.com/ppiankov/tweetlens/internal/model"
)

type countingLoader struct {
	calls int
	err   error
}

func (l *countingLoader) Load(ctx context.Context, path string) ([]model.Tweet, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return NewFileLoader(model.InputConfig{}).Load(ctx, path)
}

func TestCachedLoader_HitsAfterFirstLoad(t *testing.T) {
	path := writeFile(t, "tweets.json", sampleJSON)
	inner := &countingLoader{}
	loader := NewCachedLoader(inner, cache.NewMemoryCache(time.Minute, time.Minute), model.InputConfig{}, logging.Discard())

	first, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].Timestamp.Equal(second[i].Timestamp))
	}
}

func TestCachedLoader_FileChangeInvalidates(t *testing.T) {
	path := writeFile(t, "tweets.json", sampleJSON)
	inner := &countingLoader{}
	loader := NewCachedLoader(inner, cache.NewMemoryCache(time.Minute, time.Minute), model.InputConfig{}, logging.Discard())

	_, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	tweets, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, tweets)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedLoader_ErrorsAreNotCached(t *testing.T) {
	path := writeFile(t, "tweets.json", sampleJSON)
	inner := &countingLoader{err: errors.New("boom")}
	loader := NewCachedLoader(inner, cache.NewMemoryCache(time.Minute, time.Minute), model.InputConfig{}, logging.Discard())

	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	_, err = loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedLoader_MissingFile(t *testing.T) {
	loader := NewCachedLoader(&countingLoader{}, cache.NewMemoryCache(time.Minute, time.Minute), model.InputConfig{}, logging.Discard())

	_, err := loader.Load(context.Background(), "no_such_file.json")
	assert.Error(t, err)
}

func TestCachedLoader_SettingsAreNotShared(t *testing.T) {
	content := `[
  {"id": 1, "author": "tom", "text": "tom &amp; jerry", "timestamp": "2016-02-17T10:00:00Z"},
  {"id": 1, "author": "bad author", "text": "dup", "timestamp": "2016-02-17T11:00:00Z"}
]`
	path := writeFile(t, "tweets.json", content)
	shared := cache.NewMemoryCache(time.Minute, time.Minute)

	lax := model.InputConfig{}
	raw, err := NewCachedLoader(NewFileLoader(lax), shared, lax, logging.Discard()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "tom &amp; jerry", raw[0].Text)

	strict := model.InputConfig{UnescapeHTML: true, Validate: true}
	_, err = NewCachedLoader(NewFileLoader(strict), shared, strict, logging.Discard()).Load(context.Background(), path)
	require.Error(t, err, "entries decoded without validation must not satisfy a validating load")
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))

	unescape := model.InputConfig{UnescapeHTML: true}
	decoded, err := NewCachedLoader(NewFileLoader(unescape), shared, unescape, logging.Discard()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "tom & jerry", decoded[0].Text)
}
