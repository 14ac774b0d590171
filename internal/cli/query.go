package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tweetlens/internal/filter"
	"github.com/ppiankov/tweetlens/internal/model"
	"github.com/ppiankov/tweetlens/internal/query"
)

var timespanCmd = &cobra.Command{
	Use:   "timespan <file>",
	Short: "Print the earliest and latest timestamps in a collection",
	Long: `Timespan prints the smallest interval containing every tweet's
timestamp. An empty collection is an error.

Example:
  tweetlens timespan tweets.json
  tweetlens timespan archive.db --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueryLine(cmd, args[0], query.OpTimespan)
	},
}

var mentionsCmd = &cobra.Command{
	Use:   "mentions <file>",
	Short: "List the users @-mentioned in a collection",
	Long: `Mentions lists, in lowercase and sorted, every username that appears
as an @-mention in the collection. "bob@mit.edu" is not a mention.

Example:
  tweetlens mentions tweets.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueryLine(cmd, args[0], query.OpMentions)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <file> <query...>",
	Short: "Evaluate one query against a collection",
	Long: `Query evaluates a single query line. Supported queries:

  timespan
  mentions
  written-by <username>
  in-timespan <start> <end>     (RFC3339 timestamps)
  containing [word ...]

Example:
  tweetlens query tweets.json written-by alyssa
  tweetlens query tweets.json 'in-timespan 2016-02-17T10:00:00Z 2016-02-17T12:00:00Z'`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueryLine(cmd, args[0], strings.Join(args[1:], " "))
	},
}

var (
	filterBy    string
	filterSince string
	filterUntil string
	filterWords []string
)

var filterCmd = &cobra.Command{
	Use:   "filter <file>",
	Short: "Select tweets by author, time window and words",
	Long: `Filter applies, in order, an author filter, a time window and a word
filter. Flags that are not given are skipped. Author and word matching
ignore case; words match whole whitespace-separated tokens only.

Example:
  tweetlens filter tweets.json --by alyssa
  tweetlens filter tweets.json --since 2016-02-17T10:00:00Z --word rivest --word talk`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(timespanCmd, mentionsCmd, queryCmd, filterCmd)

	filterCmd.Flags().StringVar(&filterBy, "by", "", "keep tweets written by this user")
	filterCmd.Flags().StringVar(&filterSince, "since", "", "keep tweets at or after this RFC3339 time")
	filterCmd.Flags().StringVar(&filterUntil, "until", "", "keep tweets at or before this RFC3339 time")
	filterCmd.Flags().StringArrayVar(&filterWords, "word", nil, "keep tweets containing this word (repeatable)")
}

func runQueryLine(cmd *cobra.Command, path, line string) error {
	q, err := query.Parse(line)
	if err != nil {
		return err
	}

	p := newPipeline()
	report, err := p.Run(cmd.Context(), path, q)
	if err != nil {
		return err
	}

	return p.Renderer().Render(cmd.OutOrStdout(), report, appConfig.Output.Format)
}

func runFilter(cmd *cobra.Command, args []string) error {
	path := args[0]
	p := newPipeline()

	var span *model.Timespan
	if filterSince != "" || filterUntil != "" {
		s, err := parseWindow(filterSince, filterUntil)
		if err != nil {
			return err
		}
		span = &s
	}

	tweets, err := p.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	report := &model.Report{
		Query:       describeFilter(span),
		Op:          "filter",
		Source:      path,
		GeneratedAt: time.Now().UTC(),
		TweetCount:  len(tweets),
	}

	matched := tweets
	if filterBy != "" {
		matched = filter.WrittenBy(matched, filterBy)
	}
	if span != nil {
		matched = filter.InTimespan(matched, *span)
	}
	if cmd.Flags().Changed("word") {
		matched = filter.Containing(matched, filterWords)
	}

	report.Tweets = matched
	report.Matched = len(matched)

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d of %d tweets matched\n", report.Matched, report.TweetCount)
	}

	return p.Renderer().Render(cmd.OutOrStdout(), report, appConfig.Output.Format)
}

// parseWindow builds a timespan from optional RFC3339 bounds. A missing
// bound leaves that side of the window open.
func parseWindow(since, until string) (model.Timespan, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)

	if since != "" {
		t, err := time.Parse(time.RFC3339Nano, since)
		if err != nil {
			return model.Timespan{}, fmt.Errorf("--since: %w", err)
		}
		start = t
	}
	if until != "" {
		t, err := time.Parse(time.RFC3339Nano, until)
		if err != nil {
			return model.Timespan{}, fmt.Errorf("--until: %w", err)
		}
		end = t
	}

	return model.NewTimespan(start, end)
}

func describeFilter(span *model.Timespan) string {
	var parts []string
	if filterBy != "" {
		parts = append(parts, query.OpWrittenBy+" "+filterBy)
	}
	if span != nil {
		parts = append(parts, fmt.Sprintf("%s %s %s", query.OpInTimespan,
			span.Start().Format(time.RFC3339Nano), span.End().Format(time.RFC3339Nano)))
	}
	if len(filterWords) > 0 {
		parts = append(parts, query.OpContaining+" "+strings.Join(filterWords, " "))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " | ")
}
