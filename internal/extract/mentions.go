package extract

import (
	"sort"
	"unicode/utf8"

	"github.com/ppiankov/tweetlens/internal/model"
)

// UserSet is a set of lowercased usernames
type UserSet map[string]struct{}

// Has reports whether username (any case) is in the set
func (s UserSet) Has(username string) bool {
	_, ok := s[model.NormalizeUsername(username)]
	return ok
}

// Sorted returns the members in lexical order
func (s UserSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// GetMentionedUsers returns the lowercased usernames mentioned in the text
// of the tweets. A mention is '@' followed by a run of letters, digits and
// underscores. The '@' must not directly follow a username character, so
// "bob@mit.edu" mentions nobody.
func GetMentionedUsers(tweets []model.Tweet) UserSet {
	mentioned := make(UserSet)
	for _, tweet := range tweets {
		for _, handle := range scanMentions(tweet.Text) {
			mentioned[model.NormalizeUsername(handle)] = struct{}{}
		}
	}
	return mentioned
}

// scanMentions returns the handles mentioned in text, in order of
// appearance, duplicates included.
func scanMentions(text string) []string {
	var handles []string
	prev := utf8.RuneError // start of text

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '@' && !model.IsUsernameChar(prev) {
			end := i + size
			for end < len(text) && model.IsMentionChar(rune(text[end])) {
				end++
			}
			if end > i+size {
				handles = append(handles, text[i+size:end])
			}
		}
		prev = r
		i += size
	}

	return handles
}
