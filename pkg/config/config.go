package config

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/logger"
)

// Output formats understood by the report writer.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// Config represents the linter configuration
type Config struct {
	// ExcludedRules lists rule names that are not run.
	ExcludedRules []string `yaml:"excludedRules" json:"excludedRules" mapstructure:"excludedRules"`
	// Output is the report format.
	Output string `yaml:"output" json:"output" mapstructure:"output"`
	// FailOnViolation makes the CLI exit with a non-zero status when violations are found.
	FailOnViolation bool `yaml:"failOnViolation" json:"failOnViolation" mapstructure:"failOnViolation"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		ExcludedRules:   []string{},
		Output:          OutputText,
		FailOnViolation: true,
	}
}

// LoadFromFile loads configuration from a YAML or JSON file.
// Fields missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	slog.Debug("Loading config from file", "filename", filename)
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", filename)
	}

	config := DefaultConfig()

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		slog.Debug("YAML unmarshal failed", logger.Error(err))
		config = DefaultConfig()
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", filename)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", filename)
	}

	slog.Debug("Loaded config", "excluded_rules", len(config.ExcludedRules), "output", config.Output)
	return config, nil
}

// Validate checks the output format. Unknown rule names are not an error;
// see ExcludedKinds.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML, OutputTable:
		return nil
	case "":
		c.Output = OutputText
		return nil
	default:
		return errors.Errorf("unsupported output format %q", c.Output)
	}
}

// ExcludedKinds resolves the excluded rule names. Names that match no rule
// are returned separately so callers can warn about them.
func (c *Config) ExcludedKinds() (map[advisor.Kind]bool, []string) {
	return advisor.ResolveKinds(c.ExcludedRules)
}
