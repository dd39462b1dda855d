package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/idbridge/pkg/errors"
	jsonpool "github.com/ajitpratap0/idbridge/pkg/json"
)

// EnvPrefix prefixes every environment override (IDBRIDGE_BASE_URL, ...)
const EnvPrefix = "IDBRIDGE_"

// Load reads the configuration file at filePath, substitutes ${VAR} references,
// applies IDBRIDGE_* environment overrides and validates the result. Files
// ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, errors.Config("failed to read config file", err).WithDetail("file", filePath)
	}

	return Parse(data, formatOf(filePath))
}

// Format selects the decoder used by Parse
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes raw configuration content on top of the defaults, then applies
// environment overrides and validates.
func Parse(data []byte, format Format) (*Config, error) {
	content := substituteEnvVars(string(data))
	if strings.TrimSpace(content) == "" {
		return nil, errors.Config("config is empty", nil)
	}

	cfg := NewConfig()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			return nil, errors.Config("failed to parse YAML", err)
		}
	default:
		if err := jsonpool.Unmarshal([]byte(content), cfg); err != nil {
			return nil, errors.Config("failed to parse JSON", err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from IDBRIDGE_* environment variables. Unset
// variables leave the field untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Config("failed to apply environment overrides", err)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// substituteEnvVars replaces ${VAR_NAME} with the variable's value in a single
// pass. References to unset variables are left as written.
func substituteEnvVars(content string) string {
	return envRef.ReplaceAllStringFunc(content, func(ref string) string {
		if v, ok := os.LookupEnv(envRef.FindStringSubmatch(ref)[1]); ok {
			return v
		}
		return ref
	})
}
