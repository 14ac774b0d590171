package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/tweetlens/internal/model"
)

var (
	d1 = time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)
	d2 = time.Date(2016, 2, 17, 11, 0, 0, 0, time.UTC)
	d3 = time.Date(2016, 2, 17, 12, 0, 0, 0, time.UTC)

	tweet1 = model.NewTweet(1, "alyssa", "is it reasonable to talk about rivest so much?", d1)
	tweet2 = model.NewTweet(2, "bbitdiddle", "rivest talk in 30 minutes #hype", d2)
	tweet3 = model.NewTweet(3, "Alyssa", "Talk talk talk", d3)
	tweet4 = model.NewTweet(4, "ben", "talking\tabout\n#hype all day", d2)
)

func ids(tweets []model.Tweet) []int64 {
	out := make([]int64, len(tweets))
	for i, tw := range tweets {
		out[i] = tw.ID
	}
	return out
}

func TestWrittenBy(t *testing.T) {
	testCases := []struct {
		name     string
		tweets   []model.Tweet
		username string
		expected []int64
	}{
		{name: "single match", tweets: []model.Tweet{tweet1, tweet2}, username: "alyssa", expected: []int64{1}},
		{name: "case insensitive", tweets: []model.Tweet{tweet1, tweet2, tweet3}, username: "alyssa", expected: []int64{1, 3}},
		{name: "query in upper case", tweets: []model.Tweet{tweet1, tweet2, tweet3}, username: "ALYSSA", expected: []int64{1, 3}},
		{name: "keeps input order", tweets: []model.Tweet{tweet3, tweet2, tweet1}, username: "alyssa", expected: []int64{3, 1}},
		{name: "no match", tweets: []model.Tweet{tweet1, tweet2}, username: "nonexistent", expected: []int64{}},
		{name: "prefix is not a match", tweets: []model.Tweet{tweet1}, username: "alyss", expected: []int64{}},
		{name: "empty input", tweets: nil, username: "alyssa", expected: []int64{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := WrittenBy(tc.tweets, tc.username)
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestInTimespan(t *testing.T) {
	all := []model.Tweet{tweet1, tweet2, tweet3}

	testCases := []struct {
		name     string
		tweets   []model.Tweet
		span     model.Timespan
		expected []int64
	}{
		{name: "all inside", tweets: all, span: model.MustTimespan(d1, d3), expected: []int64{1, 2, 3}},
		{name: "some outside", tweets: all, span: model.MustTimespan(d1, d2), expected: []int64{1, 2}},
		{name: "at boundaries", tweets: all, span: model.MustTimespan(d2, d3), expected: []int64{2, 3}},
		{name: "instant span", tweets: all, span: model.MustTimespan(d2, d2), expected: []int64{2}},
		{name: "strictly between", tweets: all, span: model.MustTimespan(d1.Add(time.Nanosecond), d3.Add(-time.Nanosecond)), expected: []int64{2}},
		{name: "none inside", tweets: all, span: model.MustTimespan(d3.Add(time.Hour), d3.Add(2*time.Hour)), expected: []int64{}},
		{name: "empty list", tweets: nil, span: model.MustTimespan(d1, d2), expected: []int64{}},
		{name: "keeps input order", tweets: []model.Tweet{tweet3, tweet1, tweet2}, span: model.MustTimespan(d1, d3), expected: []int64{3, 1, 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InTimespan(tc.tweets, tc.span)
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestContaining(t *testing.T) {
	all := []model.Tweet{tweet1, tweet2, tweet3}

	testCases := []struct {
		name     string
		tweets   []model.Tweet
		words    []string
		expected []int64
	}{
		{name: "single word", tweets: all, words: []string{"rivest"}, expected: []int64{1, 2}},
		{name: "multiple words", tweets: all, words: []string{"rivest", "#hype"}, expected: []int64{1, 2}},
		{name: "case insensitive", tweets: all, words: []string{"TALK"}, expected: []int64{1, 2, 3}},
		{name: "repeated word counted once", tweets: []model.Tweet{tweet3}, words: []string{"talk"}, expected: []int64{3}},
		{name: "two matching words counted once", tweets: []model.Tweet{tweet2}, words: []string{"rivest", "talk"}, expected: []int64{2}},
		{name: "no substring match", tweets: []model.Tweet{tweet4}, words: []string{"talk"}, expected: []int64{}},
		{name: "tabs and newlines split tokens", tweets: []model.Tweet{tweet4}, words: []string{"about"}, expected: []int64{4}},
		{name: "punctuation is part of the token", tweets: []model.Tweet{tweet1}, words: []string{"much"}, expected: []int64{}},
		{name: "no-break space does not split", tweets: []model.Tweet{model.NewTweet(8, "ivy", "rivest\u00a0talk today", d1)}, words: []string{"rivest"}, expected: []int64{}},
		{name: "no-break space token matches whole", tweets: []model.Tweet{model.NewTweet(8, "ivy", "rivest\u00a0talk today", d1)}, words: []string{"RIVEST\u00a0talk"}, expected: []int64{8}},
		{name: "vertical tab and form feed split", tweets: []model.Tweet{model.NewTweet(9, "ivy", "a\vrivest\fb", d1)}, words: []string{"rivest"}, expected: []int64{9}},
		{name: "empty word list", tweets: all, words: []string{}, expected: []int64{}},
		{name: "nil word list", tweets: all, words: nil, expected: []int64{}},
		{name: "empty tweets", tweets: nil, words: []string{"rivest"}, expected: []int64{}},
		{name: "keeps input order", tweets: []model.Tweet{tweet2, tweet1}, words: []string{"rivest"}, expected: []int64{2, 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Containing(tc.tweets, tc.words)
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestFilters_DoNotMutateInput(t *testing.T) {
	tweets := []model.Tweet{tweet3, tweet1, tweet2}
	words := []string{"RIVEST", "Talk"}
	beforeTweets := append([]model.Tweet(nil), tweets...)
	beforeWords := append([]string(nil), words...)

	_ = WrittenBy(tweets, "alyssa")
	_ = InTimespan(tweets, model.MustTimespan(d1, d2))
	_ = Containing(tweets, words)

	assert.Equal(t, beforeTweets, tweets)
	assert.Equal(t, beforeWords, words)
}
