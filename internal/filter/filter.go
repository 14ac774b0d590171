// Package filter selects subsets of a tweet collection. Every function
// returns matches in input order and never modifies its arguments.
package filter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/ppiankov/tweetlens/internal/model"
)

// WrittenBy returns the tweets whose author equals username, ignoring case
func WrittenBy(tweets []model.Tweet, username string) []model.Tweet {
	return lo.Filter(tweets, func(tweet model.Tweet, _ int) bool {
		return model.SameUser(tweet.Author, username)
	})
}

// InTimespan returns the tweets sent within span, boundaries included
func InTimespan(tweets []model.Tweet, span model.Timespan) []model.Tweet {
	return lo.Filter(tweets, func(tweet model.Tweet, _ int) bool {
		return span.Contains(tweet.Timestamp)
	})
}

// Containing returns the tweets whose text has at least one of words as a
// whole whitespace-separated token, ignoring case. "talk" does not match
// "talking". Only ASCII whitespace separates tokens, so a no-break space
// joins words. An empty word list matches nothing.
func Containing(tweets []model.Tweet, words []string) []model.Tweet {
	if len(words) == 0 {
		return []model.Tweet{}
	}

	targets := lo.SliceToMap(words, func(w string) (string, struct{}) {
		return strings.ToLower(w), struct{}{}
	})

	return lo.Filter(tweets, func(tweet model.Tweet, _ int) bool {
		return lo.ContainsBy(tokens(tweet.Text), func(token string) bool {
			_, ok := targets[strings.ToLower(token)]
			return ok
		})
	})
}

// tokens splits s on runs of ASCII whitespace (space, \t, \n, \v, \f, \r)
func tokens(s string) []string {
	return strings.FieldsFunc(s, isASCIISpace)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
