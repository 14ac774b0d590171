// Package source reads tweet collections from disk.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/tweetlens/internal/model"
)

// ErrUnsupportedFormat is returned when no decoder handles a file
var ErrUnsupportedFormat = errors.New("unsupported collection format")

// Loader loads a tweet collection. Implementations return tweets in the
// order they appear in the source.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Tweet, error)
}

// Decoder reads one collection format
type Decoder interface {
	// Name returns the format name used by --format
	Name() string

	// Extensions lists the file extensions (with dot) handled by default
	Extensions() []string

	// Decode reads every tweet from path
	Decode(ctx context.Context, path string) ([]model.Tweet, error)
}

// Registry manages collection decoders
type Registry struct {
	decoders []Decoder
}

// NewRegistry creates a registry with the built-in decoders
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(&JSONDecoder{})
	registry.Register(&JSONLinesDecoder{})
	registry.Register(&YAMLDecoder{})
	registry.Register(&SQLiteDecoder{})
	return registry
}

// Register adds a decoder. Later registrations do not override earlier
// ones for the same extension.
func (r *Registry) Register(d Decoder) {
	r.decoders = append(r.decoders, d)
}

// Find returns the decoder named format, or, when format is empty, the
// decoder for the file extension of path.
func (r *Registry) Find(path, format string) (Decoder, error) {
	if format != "" {
		for _, d := range r.decoders {
			if strings.EqualFold(d.Name(), format) {
				return d, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, d := range r.decoders {
		for _, e := range d.Extensions() {
			if e == ext {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q (use --format)", ErrUnsupportedFormat, ext)
}

// Names lists the registered format names
func (r *Registry) Names() []string {
	names := make([]string, len(r.decoders))
	for i, d := range r.decoders {
		names[i] = d.Name()
	}
	return names
}

// FileLoader decodes, post-processes and optionally validates collections
type FileLoader struct {
	registry *Registry
	opts     model.InputConfig
}

// NewFileLoader creates a loader using the built-in decoders
func NewFileLoader(opts model.InputConfig) *FileLoader {
	return &FileLoader{
		registry: NewRegistry(),
		opts:     opts,
	}
}

// Load reads the collection at path
func (l *FileLoader) Load(ctx context.Context, path string) ([]model.Tweet, error) {
	decoder, err := l.registry.Find(path, l.opts.Format)
	if err != nil {
		return nil, err
	}

	tweets, err := decoder.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", path, decoder.Name(), err)
	}

	if l.opts.UnescapeHTML {
		for i := range tweets {
			tweets[i].Text = html.UnescapeString(tweets[i].Text)
		}
	}

	if l.opts.Validate {
		if err := Validate(tweets); err != nil {
			return nil, fmt.Errorf("validate %s: %w", path, err)
		}
	}

	return tweets, nil
}
