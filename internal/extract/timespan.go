package extract

import (
	"fmt"

	"github.com/ppiankov/tweetlens/internal/model"
)

// GetTimespan returns the smallest interval containing the timestamp of
// every tweet. The result does not depend on the order of tweets.
func GetTimespan(tweets []model.Tweet) (model.Timespan, error) {
	if len(tweets) == 0 {
		return model.Timespan{}, fmt.Errorf("%w: list of tweets must not be empty", model.ErrInvalidArgument)
	}

	earliest := tweets[0].Timestamp
	latest := tweets[0].Timestamp

	for _, tweet := range tweets[1:] {
		ts := tweet.Timestamp
		if ts.Before(earliest) {
			earliest = ts
		}
		if ts.After(latest) {
			latest = ts
		}
	}

	return model.NewTimespan(earliest, latest)
}
