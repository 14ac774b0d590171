package model

import "time"

// Report is the outcome of evaluating one query against a tweet collection
type Report struct {
	Query       string    `json:"query"`                 // Query line as given (e.g., "written-by alyssa")
	Op          string    `json:"op"`                    // Operation name
	Source      string    `json:"source,omitempty"`      // Path of the tweet collection
	GeneratedAt time.Time `json:"generated_at"`          // When the query was evaluated
	TweetCount  int       `json:"tweet_count"`           // Size of the input collection

	Timespan *Timespan `json:"timespan,omitempty"` // Set by the timespan operation
	Mentions []string  `json:"mentions,omitempty"` // Sorted, lowercased handles
	Tweets   []Tweet   `json:"tweets,omitempty"`   // Filtered tweets in input order
	Matched  int       `json:"matched"`            // len(Tweets) or len(Mentions)

	Error string `json:"error,omitempty"`
}

// HasError reports whether evaluation failed
func (r *Report) HasError() bool {
	return r.Error != ""
}
