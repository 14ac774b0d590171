package source

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/tweetlens/internal/model"
)

// YAMLDecoder reads a YAML sequence of tweet mappings
type YAMLDecoder struct{}

func (d *YAMLDecoder) Name() string         { return "yaml" }
func (d *YAMLDecoder) Extensions() []string { return []string{".yaml", ".yml"} }

func (d *YAMLDecoder) Decode(ctx context.Context, path string) ([]model.Tweet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tweets := []model.Tweet{}
	if err := yaml.Unmarshal(data, &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}
