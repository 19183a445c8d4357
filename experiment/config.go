// Package experiment runs the e-mail classification workflow: load and
// inspect the table, scale and split it, compare the model bank on the
// held-out rows and tune the random forest by grid search.
package experiment

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/model_selection"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig,
// e.g. EMAILCLF_DATA_PATH.
const EnvPrefix = "EMAILCLF"

// Config holds every setting of a run.
type Config struct {
	Data     DataConfig     `mapstructure:"data" yaml:"data"`
	Sampling SamplingConfig `mapstructure:"sampling" yaml:"sampling"`
	Split    SplitConfig    `mapstructure:"split" yaml:"split"`
	Tuning   TuningConfig   `mapstructure:"tuning" yaml:"tuning"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DataConfig locates the table and its columns.
type DataConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Target string `mapstructure:"target" yaml:"target"`
	// FeatureStart and FeatureEnd select feature columns by position,
	// half-open.
	FeatureStart int `mapstructure:"featureStart" yaml:"featureStart"`
	FeatureEnd   int `mapstructure:"featureEnd" yaml:"featureEnd"`
	HeadRows     int `mapstructure:"headRows" yaml:"headRows"`
}

// SamplingConfig bounds the rows used after scaling.
type SamplingConfig struct {
	MaxRows int `mapstructure:"maxRows" yaml:"maxRows"`
}

// SplitConfig configures the train/test partition.
type SplitConfig struct {
	TestSize    float64 `mapstructure:"testSize" yaml:"testSize"`
	RandomState int64   `mapstructure:"randomState" yaml:"randomState"`
}

// TuningConfig configures the grid search.
type TuningConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	CV       int    `mapstructure:"cv" yaml:"cv"`
	NJobs    int    `mapstructure:"nJobs" yaml:"nJobs"`
	Scoring  string `mapstructure:"scoring" yaml:"scoring"`
	Progress bool   `mapstructure:"progress" yaml:"progress"`
}

// ReportConfig configures optional artifacts.
type ReportConfig struct {
	// PlotPath enables a PNG metric chart when non-empty.
	PlotPath string `mapstructure:"plotPath" yaml:"plotPath"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// defaults mirrors DefaultConfig as viper keys.
var defaults = map[string]interface{}{
	"data.path":         "emails.csv",
	"data.target":       "Prediction",
	"data.featureStart": 1,
	"data.featureEnd":   3001,
	"data.headRows":     5,
	"sampling.maxRows":  1000,
	"split.testSize":    0.25,
	"split.randomState": 42,
	"tuning.enabled":    true,
	"tuning.cv":         5,
	"tuning.nJobs":      -1,
	"tuning.scoring":    "accuracy",
	"tuning.progress":   false,
	"report.plotPath":   "",
	"log.level":         "info",
}

// DefaultConfig returns the configuration of the reference run.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:         "emails.csv",
			Target:       "Prediction",
			FeatureStart: 1,
			FeatureEnd:   3001,
			HeadRows:     5,
		},
		Sampling: SamplingConfig{MaxRows: 1000},
		Split:    SplitConfig{TestSize: 0.25, RandomState: 42},
		Tuning: TuningConfig{
			Enabled: true,
			CV:      5,
			NJobs:   -1,
			Scoring: "accuracy",
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads the configuration from v, which may already have flags
// bound to it. Defaults are applied first, then the optional YAML file at
// path, then EMAILCLF_* environment variables. A nil v uses a fresh viper.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(param, reason string, value interface{}) {
		result = multierror.Append(result, errors.NewValidationError(param, reason, value))
	}

	if c.Data.Path == "" {
		add("data.path", "must not be empty", c.Data.Path)
	}
	if c.Data.Target == "" {
		add("data.target", "must not be empty", c.Data.Target)
	}
	if c.Data.FeatureStart < 0 {
		add("data.featureStart", "must be non-negative", c.Data.FeatureStart)
	}
	if c.Data.FeatureEnd <= c.Data.FeatureStart {
		add("data.featureEnd", fmt.Sprintf("must be greater than data.featureStart (%d)", c.Data.FeatureStart), c.Data.FeatureEnd)
	}
	if c.Data.HeadRows < 0 {
		add("data.headRows", "must be non-negative", c.Data.HeadRows)
	}
	if c.Sampling.MaxRows <= 0 {
		add("sampling.maxRows", "must be positive", c.Sampling.MaxRows)
	}
	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		add("split.testSize", "must be in the open interval (0, 1)", c.Split.TestSize)
	}
	if c.Tuning.CV < 2 {
		add("tuning.cv", "must be at least 2", c.Tuning.CV)
	}
	if c.Tuning.NJobs == 0 {
		add("tuning.nJobs", "must be positive or negative, not 0", c.Tuning.NJobs)
	}
	if _, err := model_selection.GetScorer(c.Tuning.Scoring); err != nil {
		add("tuning.scoring", fmt.Sprintf("must be one of %v", model_selection.ScorerNames()), c.Tuning.Scoring)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "must be debug, info, warn or error", c.Log.Level)
	}
	return result.ErrorOrNil()
}
