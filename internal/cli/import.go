package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tweetlens/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <src> <dst.db>",
	Short: "Copy a collection into a sqlite database",
	Long: `Import loads a collection in any supported format and upserts its
tweets into a sqlite database, which can then be queried like any other
collection. Tweets already present (same id) are replaced.

Example:
  tweetlens import tweets.json archive.db
  tweetlens timespan archive.db`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	src, dst := args[0], args[1]
	ctx := cmd.Context()

	tweets, err := newPipeline().Load(ctx, src)
	if err != nil {
		return err
	}

	db, err := store.Open(dst)
	if err != nil {
		return fmt.Errorf("open %s: %w", dst, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, closeErr)
		}
	}()

	if err := db.PutTweets(ctx, tweets); err != nil {
		return fmt.Errorf("import into %s: %w", dst, err)
	}

	total, err := db.Count(ctx)
	if err != nil {
		return fmt.Errorf("count %s: %w", dst, err)
	}

	logger.Info("import complete", "src", src, "dst", dst, "imported", len(tweets), "total", total)
	fmt.Fprintf(os.Stderr, "✓ Imported %d tweets into %s (%d total)\n", len(tweets), dst, total)
	return nil
}
