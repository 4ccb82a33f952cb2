// Package config loads the azload configuration file
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Abaw1984/azload-sub000/internal/classifier"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/metrics"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Environment variables that override the file
const (
	EnvClassifierURL = "AZLOAD_CLASSIFIER_URL"
	EnvStoreDSN      = "AZLOAD_STORE_DSN"
)

// Classifier modes
const (
	ClassifierHTTP      = "http"
	ClassifierHeuristic = "heuristic"
	ClassifierNone      = "none"
)

type Config struct {
	Log        LogConfig          `yaml:"log"`
	Axes       AxesConfig         `yaml:"axes"`
	MCP        MCPConfig          `yaml:"mcp"`
	Classifier ClassifierConfig   `yaml:"classifier"`
	Store      StoreConfig        `yaml:"store"`
	Server     ServerConfig       `yaml:"server"`
	Site       loads.SiteDefaults `yaml:"site"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// AxesConfig selects the vertical and span axes. Length is whatever is left.
type AxesConfig struct {
	Vertical model.Axis `yaml:"vertical" validate:"oneof=X Y Z"`
	Width    model.Axis `yaml:"width" validate:"oneof=X Y Z,nefield=Vertical"`
}

type MCPConfig struct {
	// Tolerance in model length units; 0 picks the unit default
	Tolerance              float64 `yaml:"tolerance" validate:"gte=0"`
	LowConfidenceThreshold float64 `yaml:"low_confidence_threshold" validate:"gte=0,lte=1"`
	OverrideLogCapacity    int     `yaml:"override_log_capacity" validate:"gte=1"`
}

type ClassifierConfig struct {
	Mode    string        `yaml:"mode" validate:"oneof=http heuristic none"`
	URL     string        `yaml:"url" validate:"required_if=Mode http"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// StoreConfig names the database. An empty DSN disables persistence.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" validate:"gt=0"`
}

// Default returns a configuration that runs offline with the heuristic
// classifier and no store
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Axes: AxesConfig{
			Vertical: model.DefaultAxes.Vertical,
			Width:    model.DefaultAxes.Width,
		},
		MCP: MCPConfig{
			LowConfidenceThreshold: mcp.DefaultLowConfidenceThreshold,
			OverrideLogCapacity:    mcp.DefaultOverrideLogCapacity,
		},
		Classifier: ClassifierConfig{
			Mode:    ClassifierHeuristic,
			Timeout: mcp.DefaultClassifierTimeout,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20,
		},
		Site: loads.DefaultSiteDefaults(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values from the environment. A classifier URL
// switches the classifier to http mode.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if url := strings.TrimSpace(getenv(EnvClassifierURL)); url != "" {
		c.Classifier.URL = url
		c.Classifier.Mode = ClassifierHTTP
	}
	if dsn := strings.TrimSpace(getenv(EnvStoreDSN)); dsn != "" {
		c.Store.DSN = dsn
	}
}

var validate = validator.New()

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %s %s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

// AxisConvention returns the configured axes
func (c *Config) AxisConvention() model.AxisConvention {
	return model.AxisConvention{Vertical: c.Axes.Vertical, Width: c.Axes.Width}
}

// MCPOptions builds session options. sink may be nil.
func (c *Config) MCPOptions(logger *slog.Logger, reg *metrics.Registry, sink mcp.OverrideSink) mcp.Options {
	return mcp.Options{
		Axes:                   c.AxisConvention(),
		Tolerance:              c.MCP.Tolerance,
		LowConfidenceThreshold: c.MCP.LowConfidenceThreshold,
		OverrideLogCapacity:    c.MCP.OverrideLogCapacity,
		ClassifierTimeout:      c.Classifier.Timeout,
		Sink:                   sink,
		Logger:                 logger,
		Metrics:                reg,
	}
}

// NewClassifier returns the configured classifier, or nil in none mode
func (c *Config) NewClassifier() classifier.Classifier {
	switch c.Classifier.Mode {
	case ClassifierHTTP:
		return classifier.NewHTTPClassifier(c.Classifier.URL, c.Classifier.Timeout)
	case ClassifierHeuristic:
		return classifier.NewHeuristic(c.AxisConvention(), c.MCP.Tolerance)
	default:
		return nil
	}
}
