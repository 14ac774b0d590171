// Package query parses and evaluates the line-oriented query form used by
// `tweetlens query` and batch files:
//
//	timespan
//	mentions
//	written-by <username>
//	in-timespan <start> <end>      (RFC3339)
//	containing [word ...]
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/tweetlens/internal/extract"
	"github.com/ppiankov/tweetlens/internal/filter"
	"github.com/ppiankov/tweetlens/internal/model"
)

var (
	// ErrUnknownOp is returned for a query whose first word is not an operation
	ErrUnknownOp = errors.New("unknown query operation")

	// ErrBadArgs is returned when an operation gets the wrong arguments
	ErrBadArgs = errors.New("bad query arguments")
)

// Operation names
const (
	OpTimespan   = "timespan"
	OpMentions   = "mentions"
	OpWrittenBy  = "written-by"
	OpInTimespan = "in-timespan"
	OpContaining = "containing"
)

// Ops lists the supported operations
var Ops = []string{OpTimespan, OpMentions, OpWrittenBy, OpInTimespan, OpContaining}

// Query is one query line. Build it with Parse; a Query assembled by hand
// is checked again by Run.
type Query struct {
	Raw  string
	Op   string
	Args []string
}

// Result holds what a query produced. Exactly one of the payload fields is
// meaningful, depending on Op.
type Result struct {
	Op       string
	Timespan *model.Timespan
	Mentions []string
	Tweets   []model.Tweet
}

// Matched returns the number of mentions or tweets in the result
func (r Result) Matched() int {
	if r.Op == OpMentions {
		return len(r.Mentions)
	}
	return len(r.Tweets)
}

// Parse reads a query line. Tokens are separated by whitespace; the
// operation name is case-insensitive.
func Parse(line string) (Query, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Query{}, fmt.Errorf("%w: empty query", ErrUnknownOp)
	}

	q := Query{
		Raw:  strings.TrimSpace(line),
		Op:   strings.ToLower(fields[0]),
		Args: fields[1:],
	}

	if _, err := q.check(); err != nil {
		return Query{}, err
	}

	return q, nil
}

// MustParse is like Parse but panics on error
func MustParse(line string) Query {
	q, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return q
}

// check validates the operation and its arguments, returning the window of
// an in-timespan query
func (q Query) check() (model.Timespan, error) {
	switch q.Op {
	case OpTimespan, OpMentions:
		if len(q.Args) != 0 {
			return model.Timespan{}, fmt.Errorf("%w: %s takes no arguments", ErrBadArgs, q.Op)
		}
	case OpWrittenBy:
		if len(q.Args) != 1 {
			return model.Timespan{}, fmt.Errorf("%w: %s takes exactly one username", ErrBadArgs, q.Op)
		}
	case OpInTimespan:
		if len(q.Args) != 2 {
			return model.Timespan{}, fmt.Errorf("%w: %s takes a start and an end time", ErrBadArgs, q.Op)
		}
		return parseSpan(q.Args[0], q.Args[1])
	case OpContaining:
		// any number of words, including none
	default:
		return model.Timespan{}, fmt.Errorf("%w: %q", ErrUnknownOp, q.Op)
	}
	return model.Timespan{}, nil
}

func parseSpan(rawStart, rawEnd string) (model.Timespan, error) {
	start, err := time.Parse(time.RFC3339Nano, rawStart)
	if err != nil {
		return model.Timespan{}, fmt.Errorf("%w: start: %w", ErrBadArgs, err)
	}
	end, err := time.Parse(time.RFC3339Nano, rawEnd)
	if err != nil {
		return model.Timespan{}, fmt.Errorf("%w: end: %w", ErrBadArgs, err)
	}

	span, err := model.NewTimespan(start, end)
	if err != nil {
		return model.Timespan{}, fmt.Errorf("%w: %w", ErrBadArgs, err)
	}
	return span, nil
}

// Run evaluates the query against tweets. Besides malformed queries, the
// only failure is a timespan query over an empty collection.
func (q Query) Run(tweets []model.Tweet) (Result, error) {
	result := Result{Op: q.Op}

	span, err := q.check()
	if err != nil {
		return result, err
	}

	switch q.Op {
	case OpTimespan:
		covered, err := extract.GetTimespan(tweets)
		if err != nil {
			return result, err
		}
		result.Timespan = &covered
	case OpMentions:
		result.Mentions = extract.GetMentionedUsers(tweets).Sorted()
	case OpWrittenBy:
		result.Tweets = filter.WrittenBy(tweets, q.Args[0])
	case OpInTimespan:
		result.Tweets = filter.InTimespan(tweets, span)
	case OpContaining:
		result.Tweets = filter.Containing(tweets, q.Args)
	default:
		return result, fmt.Errorf("%w: %q", ErrUnknownOp, q.Op)
	}

	return result, nil
}

func (q Query) String() string {
	if q.Raw != "" {
		return q.Raw
	}
	return strings.TrimSpace(q.Op + " " + strings.Join(q.Args, " "))
}
