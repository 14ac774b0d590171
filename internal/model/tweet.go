package model

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidArgument is returned when an operation is called with input
// outside its contract (empty collection, inverted timespan).
var ErrInvalidArgument = errors.New("invalid argument")

// Tweet is a short timestamped message written by a single author.
// Tweets are treated as immutable values: nothing in tweetlens modifies a
// Tweet or the slice holding it.
type Tweet struct {
	ID        int64     `json:"id" yaml:"id" validate:"required,gt=0"`
	Author    string    `json:"author" yaml:"author" validate:"required,username"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp" validate:"required"`
}

// NewTweet builds a tweet value
func NewTweet(id int64, author, text string, timestamp time.Time) Tweet {
	return Tweet{
		ID:        id,
		Author:    author,
		Text:      text,
		Timestamp: timestamp,
	}
}

// IsUsernameChar reports whether r may appear in a username:
// ASCII letters, digits, underscore and hyphen.
func IsUsernameChar(r rune) bool {
	return IsMentionChar(r) || r == '-'
}

// IsMentionChar reports whether r belongs to the captured part of an
// @-mention. Unlike IsUsernameChar it excludes the hyphen, so "@foo-bar"
// mentions "foo".
func IsMentionChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	return r == '_'
}

// IsValidUsername reports whether s is a non-empty run of username characters
func IsValidUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsUsernameChar(r) {
			return false
		}
	}
	return true
}

// SameUser compares two usernames case-insensitively
func SameUser(a, b string) bool {
	return strings.EqualFold(a, b)
}

// NormalizeUsername returns the canonical (lowercase) form of a username
func NormalizeUsername(s string) string {
	return strings.ToLower(s)
}
