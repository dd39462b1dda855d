package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/idbridge/pkg/errors"
)

const (
	// DefaultAPIVersion is the backend REST API version sent when none is configured
	DefaultAPIVersion = "1.3"
	// DefaultTimeout bounds a single request/response exchange
	DefaultTimeout = 30 * time.Second
	// DefaultOrgID is the organization assigned to created persons without one
	DefaultOrgID = 1
)

// Config is the backend configuration shared by every connector. It is
// constructed once per invocation and passed to the connector factory.
type Config struct {
	// BaseURL is the backend REST endpoint (e.g. https://cmdb/webservices/rest.php)
	BaseURL string `yaml:"baseUrl" json:"baseUrl" env:"BASE_URL"`
	// APIVersion is sent as the version query parameter
	APIVersion string `yaml:"apiVersion" json:"apiVersion" env:"API_VERSION"`

	// AuthToken selects token authentication. Takes precedence over Username/Password.
	AuthToken string `yaml:"auth_token" json:"auth_token" env:"AUTH_TOKEN"`
	// Username and Password select basic credential authentication
	Username string `yaml:"username" json:"username" env:"USERNAME"`
	Password string `yaml:"password" json:"password" env:"PASSWORD"`

	// OAuth2 password grant, used by connectors that support it
	ClientID     string `yaml:"clientId" json:"clientId" env:"CLIENT_ID"`
	ClientSecret string `yaml:"clientSecret" json:"clientSecret" env:"CLIENT_SECRET"`
	TokenURL     string `yaml:"tokenUrl" json:"tokenUrl" env:"TOKEN_URL"`

	// InsecureSkipVerify disables TLS certificate verification (self-signed backends).
	// Off unless explicitly enabled.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify" json:"insecureSkipVerify" env:"INSECURE_SKIP_VERIFY"`
	// Timeout bounds each request
	Timeout Duration `yaml:"timeout" json:"timeout" env:"TIMEOUT"`
	// DefaultOrgID is assigned on create when the person carries no organization
	DefaultOrgID int `yaml:"defaultOrgId" json:"defaultOrgId" env:"DEFAULT_ORG_ID"`
}

// NewConfig returns a Config with defaults applied
func NewConfig() *Config {
	return &Config{
		APIVersion:   DefaultAPIVersion,
		Timeout:      Duration(DefaultTimeout),
		DefaultOrgID: DefaultOrgID,
	}
}

// AuthMode describes which credentials are usable
type AuthMode string

const (
	AuthModeNone     AuthMode = "none"
	AuthModeToken    AuthMode = "token"
	AuthModePassword AuthMode = "password"
)

// AuthMode reports the authentication mode the credentials allow. A token wins
// over a username/password pair; a lone username or password is unusable.
func (c *Config) AuthMode() AuthMode {
	switch {
	case c.AuthToken != "":
		return AuthModeToken
	case c.Username != "" && c.Password != "":
		return AuthModePassword
	default:
		return AuthModeNone
	}
}

// HasOAuth2 reports whether an OAuth2 client is configured
func (c *Config) HasOAuth2() bool {
	return c.ClientID != ""
}

// RequestTimeout returns the configured timeout or the default
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Timeout)
}

// Validate checks required fields and reports every problem found as a single
// configuration error.
func (c *Config) Validate() error {
	var errs error

	if c.BaseURL == "" {
		errs = multierr.Append(errs, fmt.Errorf("baseUrl is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = multierr.Append(errs, fmt.Errorf("baseUrl %q must be an absolute http(s) URL", c.BaseURL))
	}

	if c.APIVersion == "" {
		errs = multierr.Append(errs, fmt.Errorf("apiVersion is required"))
	}

	if c.AuthMode() == AuthModeNone {
		errs = multierr.Append(errs, fmt.Errorf("either auth_token or both username and password must be provided"))
	}

	if c.HasOAuth2() && (c.Username == "" || c.Password == "") {
		errs = multierr.Append(errs, fmt.Errorf("clientId requires username and password for the password grant"))
	}

	if c.Timeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("timeout cannot be negative"))
	}

	if c.DefaultOrgID < 0 {
		errs = multierr.Append(errs, fmt.Errorf("defaultOrgId cannot be negative"))
	}

	if errs != nil {
		return errors.Config("invalid configuration", errs)
	}
	return nil
}

// Redacted returns a copy safe for logging
func (c *Config) Redacted() Config {
	out := *c
	if out.Password != "" {
		out.Password = "***"
	}
	if out.AuthToken != "" {
		out.AuthToken = "***"
	}
	if out.ClientSecret != "" {
		out.ClientSecret = "***"
	}
	return out
}

// Duration is a time.Duration that decodes from "30s" style strings or from a
// plain number of seconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler, used for env overrides
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// UnmarshalJSON accepts a quoted duration string or a number of seconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" || s == "" {
		return nil
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalYAML accepts a duration string or a number of seconds
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalText renders the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func parseDuration(s string) (Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return Duration(time.Duration(secs * float64(time.Second))), nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return Duration(v), nil
}
