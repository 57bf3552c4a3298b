// Package config assembles the tagger configuration from environment variables
// and an optional YAML sources file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"news-tag-app/internal/domain/entity"
	"news-tag-app/internal/infra/output"
	envconfig "news-tag-app/pkg/config"
	"news-tag-app/pkg/ratelimit"

	"gopkg.in/yaml.v3"
)

// Defaults for the tagger configuration.
const (
	DefaultItemsPerSource = 10
	DefaultTimezone       = "Asia/Tokyo"
	DefaultMetricsPort    = 9090
	DefaultRunTimeout     = 30 * time.Minute

	minItemsPerSource = 1
	maxItemsPerSource = 100
)

// TaggerConfig holds everything the pipeline needs besides the LLM client.
type TaggerConfig struct {
	// Locale selects the tag vocabulary (TAGGER_LOCALE).
	Locale entity.Locale
	// OutputPath is the JSON file overwritten by each run (TAGGER_OUTPUT_PATH).
	OutputPath string
	// ItemsPerSource caps the records taken from each feed (TAGGER_ITEMS_PER_SOURCE).
	ItemsPerSource int
	// CallsPerMinute paces classification calls (TAGGER_CALLS_PER_MINUTE).
	CallsPerMinute int
	// SourcesFile is an optional YAML file replacing the built-in sources (TAGGER_SOURCES_FILE).
	SourcesFile string
	// Sources are the feeds processed in order.
	Sources []entity.Source

	// RunTimeout bounds a single pipeline run (TAGGER_RUN_TIMEOUT).
	RunTimeout time.Duration

	// Schedule enables scheduled mode when non-empty (TAGGER_SCHEDULE).
	Schedule string
	// RunOnStart triggers a run as soon as scheduled mode starts (TAGGER_RUN_ON_START).
	RunOnStart bool
	// Timezone applies to Schedule (TAGGER_TIMEZONE).
	Timezone string
	// MetricsPort serves /metrics and /health in scheduled mode (METRICS_PORT).
	MetricsPort int
	// PushgatewayURL receives run metrics in run-once mode (PUSHGATEWAY_URL).
	PushgatewayURL string
}

// DefaultTaggerConfig returns the configuration used when no variables are set.
func DefaultTaggerConfig() TaggerConfig {
	return TaggerConfig{
		Locale:         entity.LocaleJapanese,
		OutputPath:     output.DefaultPath,
		ItemsPerSource: DefaultItemsPerSource,
		CallsPerMinute: ratelimit.DefaultCallsPerMinute,
		Sources:        entity.DefaultSources(),
		Timezone:       DefaultTimezone,
		MetricsPort:    DefaultMetricsPort,
		RunTimeout:     DefaultRunTimeout,
	}
}

// LoadTaggerConfig reads the configuration from the environment, loads the
// sources file when one is configured and validates the result.
func LoadTaggerConfig() (*TaggerConfig, error) {
	def := DefaultTaggerConfig()

	cfg := &TaggerConfig{
		Locale:         entity.Locale(strings.ToLower(envconfig.GetEnvString("TAGGER_LOCALE", string(def.Locale)))),
		OutputPath:     envconfig.GetEnvString("TAGGER_OUTPUT_PATH", def.OutputPath),
		ItemsPerSource: envconfig.GetEnvInt("TAGGER_ITEMS_PER_SOURCE", def.ItemsPerSource),
		CallsPerMinute: envconfig.GetEnvInt("TAGGER_CALLS_PER_MINUTE", def.CallsPerMinute),
		SourcesFile:    envconfig.GetEnvString("TAGGER_SOURCES_FILE", ""),
		Sources:        def.Sources,
		RunTimeout:     envconfig.GetEnvDuration("TAGGER_RUN_TIMEOUT", def.RunTimeout),
		Schedule:       envconfig.GetEnvString("TAGGER_SCHEDULE", ""),
		RunOnStart:     envconfig.GetEnvBool("TAGGER_RUN_ON_START", false),
		Timezone:       envconfig.GetEnvString("TAGGER_TIMEZONE", def.Timezone),
		MetricsPort:    envconfig.GetEnvInt("METRICS_PORT", def.MetricsPort),
		PushgatewayURL: envconfig.GetEnvString("PUSHGATEWAY_URL", ""),
	}

	if cfg.SourcesFile != "" {
		sources, err := LoadSources(cfg.SourcesFile)
		if err != nil {
			return nil, err
		}
		cfg.Sources = sources
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Scheduled reports whether the tagger runs on a cron schedule instead of once.
func (c *TaggerConfig) Scheduled() bool {
	return c.Schedule != ""
}

// WorstCaseRun is the pacing time for a run in which every source yields
// ItemsPerSource items.
func (c *TaggerConfig) WorstCaseRun(interval time.Duration) time.Duration {
	return time.Duration(len(c.Sources)*c.ItemsPerSource) * interval
}

// Validate checks every field and reports all problems together.
func (c *TaggerConfig) Validate() error {
	var errs []error

	if _, err := entity.NewVocabulary(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale: %w", err))
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		errs = append(errs, errors.New("output path: cannot be empty"))
	}
	if err := envconfig.ValidateIntRange(c.ItemsPerSource, minItemsPerSource, maxItemsPerSource); err != nil {
		errs = append(errs, fmt.Errorf("items per source: %w", err))
	}
	pacing := ratelimit.PacerConfig{CallsPerMinute: c.CallsPerMinute}
	pacingErr := pacing.Validate()
	if pacingErr != nil {
		errs = append(errs, fmt.Errorf("calls per minute: %w", pacingErr))
	}
	if err := entity.ValidateSources(c.Sources); err != nil {
		errs = append(errs, fmt.Errorf("sources: %w", err))
	}
	if err := envconfig.ValidatePositiveDuration(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	} else if pacingErr == nil {
		// A run that outlives its deadline leaves items untagged.
		if worst := c.WorstCaseRun(pacing.Interval()); c.RunTimeout < worst {
			errs = append(errs, fmt.Errorf("run timeout: %v is shorter than the worst-case run of %v (%d sources x %d items at %d calls/min)",
				c.RunTimeout, worst, len(c.Sources), c.ItemsPerSource, c.CallsPerMinute))
		}
	}

	if c.Scheduled() {
		if err := envconfig.ValidateCronSchedule(c.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("schedule: %w", err))
		}
		if err := envconfig.ValidateTimezone(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("timezone: %w", err))
		}
		if err := envconfig.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
			errs = append(errs, fmt.Errorf("metrics port: %w", err))
		}
	}

	if c.PushgatewayURL != "" {
		if err := entity.ValidateFeedURL(c.PushgatewayURL); err != nil {
			errs = append(errs, fmt.Errorf("pushgateway url: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", entity.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// LoadSources reads a YAML list of {category, feed_url} entries.
func LoadSources(path string) ([]entity.Source, error) {
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources []entity.Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}
	if err := entity.ValidateSources(sources); err != nil {
		return nil, fmt.Errorf("sources file %s: %w", path, err)
	}
	return sources, nil
}
