package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/tweetlens/internal/pipeline"
	"github.com/ppiankov/tweetlens/internal/query"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <tweets-file> <queries-file>",
	Short: "Evaluate a file of queries against one collection in parallel",
	Long: `Batch loads a collection once and evaluates many queries concurrently:
- Read queries from the queries file (one per line, '#' starts a comment)
- Evaluate them across a pool of workers, optionally rate limited
- Print the reports in query order, or write one report file per query

Example:
  tweetlens batch tweets.json queries.txt
  tweetlens batch tweets.json queries.txt --concurrency 8 --output-dir ./reports --format md
  tweetlens batch archive.db queries.txt --rps 50 --burst 10`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().Int("concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().Float64("rps", 0, "max query evaluations per second (0 = unlimited)")
	batchCmd.Flags().Int("burst", 5, "rate limiter burst size")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write one report per query into this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("concurrency.requests_per_second", batchCmd.Flags().Lookup("rps"))
	_ = viper.BindPFlag("concurrency.burst_size", batchCmd.Flags().Lookup("burst"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	tweetsFile, queriesFile := args[0], args[1]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg := appConfig
	out := cmd.OutOrStdout()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Tweetlens Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Collection:   %s\n", tweetsFile)
	fmt.Fprintf(os.Stderr, "  Queries:      %s\n", queriesFile)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	if cfg.Concurrency.RequestsPerSecond > 0 {
		fmt.Fprintf(os.Stderr, "  Rate limit:   %.1f/s (burst %d)\n", cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.BurstSize)
	}
	if outputDir != "" {
		fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	}
	fmt.Fprintf(os.Stderr, "\n")

	queries, err := query.ReadQueriesFromFile(queriesFile)
	if err != nil {
		return fmt.Errorf("read queries: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d queries\n", len(queries))

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	p := newPipeline()
	start := time.Now()

	results, err := p.RunBatch(ctx, tweetsFile, queries)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	successCount := 0
	failureCount := 0

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, result.Error)
			continue
		}
		successCount++

		if outputDir == "" {
			if i > 0 && cfg.Output.Format != pipeline.FormatJSON {
				fmt.Fprintln(out)
			}
			if cfg.Output.Format == pipeline.FormatText {
				fmt.Fprintf(out, "## %s\n", result.Query)
			}
			if err := p.Renderer().Render(out, result.Report, cfg.Output.Format); err != nil {
				return fmt.Errorf("render %s: %w", result.Query, err)
			}
			continue
		}

		name := fmt.Sprintf("%03d-%s%s", i+1, sanitizeFilename(result.Query.String()), pipeline.Extension(cfg.Output.Format))
		path := filepath.Join(outputDir, name)
		if err := p.Renderer().RenderFile(result.Report, path, cfg.Output.Format); err != nil {
			failureCount++
			successCount--
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Query, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d matched) → %s\n", result.Query, result.Report.Matched, path)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Elapsed:   %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d queries failed", failureCount, len(results))
	}
	return nil
}
