// Package store persists tweet collections in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/tweetlens/internal/model"
)

// Timestamps are stored as unix nanoseconds, which covers roughly the
// years 1678 to 2262.
var (
	minStorable = time.Unix(0, math.MinInt64)
	maxStorable = time.Unix(0, math.MaxInt64)
)

// DB wraps a SQLite database holding one tweet collection
type DB struct{ sql *sql.DB }

// Open opens (creating if needed) the database at path. Use ":memory:" for
// a throwaway store.
func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// :memory: databases are per-connection
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close releases the database
func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS tweets (
	  seq INTEGER PRIMARY KEY AUTOINCREMENT,
	  id INTEGER NOT NULL UNIQUE,
	  author TEXT NOT NULL,
	  text TEXT NOT NULL,
	  ts INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tweets_ts ON tweets(ts);
	`)
	return err
}

// PutTweets stores tweets in one transaction. A tweet whose id already
// exists replaces the stored one but keeps its original position. Nothing
// is stored if any timestamp falls outside the storable range.
func (d *DB) PutTweets(ctx context.Context, tweets []model.Tweet) (err error) {
	for _, t := range tweets {
		if t.Timestamp.Before(minStorable) || t.Timestamp.After(maxStorable) {
			return fmt.Errorf("%w: tweet %d timestamp %s is outside the storable range",
				model.ErrInvalidArgument, t.ID, t.Timestamp.Format(time.RFC3339Nano))
		}
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tweets(id, author, text, ts) VALUES(?,?,?,?)
	  ON CONFLICT(id) DO UPDATE SET author=excluded.author, text=excluded.text, ts=excluded.ts`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range tweets {
		if _, err = stmt.ExecContext(ctx, t.ID, t.Author, t.Text, t.Timestamp.UnixNano()); err != nil {
			return fmt.Errorf("insert tweet %d: %w", t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadTweets returns every stored tweet in insertion order
func (d *DB) LoadTweets(ctx context.Context) ([]model.Tweet, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, author, text, ts FROM tweets ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []model.Tweet{}
	for rows.Next() {
		var (
			id     int64
			author string
			text   string
			ts     int64
		)
		if err := rows.Scan(&id, &author, &text, &ts); err != nil {
			return nil, err
		}
		out = append(out, model.NewTweet(id, author, text, time.Unix(0, ts).UTC()))
	}
	return out, rows.Err()
}

// Count returns the number of stored tweets
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM tweets`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
