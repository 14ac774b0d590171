package model

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.tweetlens, or "" when the home directory is unknown
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tweetlens")
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "tweetlens")
	}
	return filepath.Join(os.TempDir(), "tweetlens-cache")
}
