package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/tweetlens/internal/logging"
	"github.com/ppiankov/tweetlens/internal/metrics"
	"github.com/ppiankov/tweetlens/internal/model"
	"github.com/ppiankov/tweetlens/internal/pipeline"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile     string
	verbose     bool
	noCache     bool
	outFormat   string
	inputFormat string
	logLevel    string
	metricsFile string

	// set by loadConfig before any command runs
	appConfig *model.Config
	logger    = logging.Discard()
	configErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tweetlens",
	Short: "Tweetlens - extract and filter facts from tweet collections",
	Long: `Tweetlens reads collections of tweets (JSON, JSON lines, YAML or an
imported sqlite database) and answers simple questions about them:

- the timespan the collection covers
- which users are @-mentioned
- which tweets were written by someone, sent in a window, or contain a word

Queries can be run one at a time or in batches across a worker pool.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command. Interrupts cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if appConfig != nil && appConfig.Metrics.Textfile != "" {
		if mErr := metrics.WriteTextfile(appConfig.Metrics.Textfile); mErr != nil {
			err = errors.Join(err, fmt.Errorf("write metrics: %w", mErr))
		}
	}
	return err
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of tweetlens.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tweetlens %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tweetlens/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringVarP(&outFormat, "format", "f", "text", "output format (text, json, md)")
	flags.StringVar(&inputFormat, "input-format", "", "collection format (json, jsonl, yaml, sqlite); default by extension")
	flags.BoolVar(&noCache, "no-cache", false, "disable the decoded-collection cache")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("output.format", flags.Lookup("format"))
	_ = viper.BindPFlag("input.format", flags.Lookup("input-format"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("metrics.textfile", flags.Lookup("metrics-file"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig points viper at the config file and environment
func initConfig() {
	configErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if dir := model.ConfigDir(); dir != "" {
			viper.AddConfigPath(dir)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(model.DefaultConfig())

	// Read in environment variables that match TWEETLENS_*, e.g.
	// TWEETLENS_CACHE_ENABLED=false
	viper.SetEnvPrefix("TWEETLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("read config: %w", err)
		}
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env overrides apply to keys
// absent from the config file
func setDefaults(cfg *model.Config) {
	viper.SetDefault("input.format", cfg.Input.Format)
	viper.SetDefault("input.unescape_html", cfg.Input.UnescapeHTML)
	viper.SetDefault("input.validate", cfg.Input.Validate)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_dir", cfg.Cache.DiskDir)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("concurrency.requests_per_second", cfg.Concurrency.RequestsPerSecond)
	viper.SetDefault("concurrency.burst_size", cfg.Concurrency.BurstSize)
	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("log.level", cfg.Log.Level)
	viper.SetDefault("log.handler", cfg.Log.Handler)
	viper.SetDefault("log.file", cfg.Log.File)
	viper.SetDefault("metrics.textfile", cfg.Metrics.Textfile)
}

// loadConfig resolves the effective configuration and logger
func loadConfig(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	format, err := pipeline.NormalizeFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	cfg.Output.Format = format

	appConfig = cfg
	logger = logging.New(cfg.Log)
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		"config_file", viper.ConfigFileUsed(),
		"cache", cfg.Cache.Enabled,
		"format", cfg.Output.Format)
	return nil
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.NewPipeline(appConfig, logger)
}

// sanitizeFilename turns a query line into a safe file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
		"\t", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(filepath.Clean(s), ".")

	if s == "" {
		s = "query"
	}

	return truncateBytes(s, 100)
}

// truncateBytes shortens s to at most limit bytes without splitting a rune
func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
