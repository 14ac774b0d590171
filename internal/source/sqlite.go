package source

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/tweetlens/internal/model"
	"github.com/ppiankov/tweetlens/internal/store"
)

// SQLiteDecoder reads a collection written by `tweetlens import`
type SQLiteDecoder struct{}

func (d *SQLiteDecoder) Name() string         { return "sqlite" }
func (d *SQLiteDecoder) Extensions() []string { return []string{".db", ".sqlite", ".sqlite3"} }

func (d *SQLiteDecoder) Decode(ctx context.Context, path string) ([]model.Tweet, error) {
	// sql.Open would silently create a missing database
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	tweets, err := db.LoadTweets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tweets: %w", err)
	}
	return tweets, nil
}
