package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/tweetlens/internal/model"
)

// JSONDecoder reads a JSON array of tweet objects
type JSONDecoder struct{}

func (d *JSONDecoder) Name() string         { return "json" }
func (d *JSONDecoder) Extensions() []string { return []string{".json"} }

func (d *JSONDecoder) Decode(ctx context.Context, path string) ([]model.Tweet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tweets := []model.Tweet{}
	if err := json.Unmarshal(data, &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

// JSONLinesDecoder reads one tweet object per line. Blank lines are skipped.
type JSONLinesDecoder struct{}

func (d *JSONLinesDecoder) Name() string         { return "jsonl" }
func (d *JSONLinesDecoder) Extensions() []string { return []string{".jsonl", ".ndjson"} }

func (d *JSONLinesDecoder) Decode(ctx context.Context, path string) ([]model.Tweet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	tweets := []model.Tweet{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var t model.Tweet
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		tweets = append(tweets, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return tweets, nil
}
