// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is read when no --config is given. It may be absent.
	DefaultConfigPath = "config/config.json"
	// EnvPrefix prefixes every environment override, e.g. TOOLBELT_LOG_LEVEL.
	EnvPrefix = "TOOLBELT"

	defaultServerName     = "toolbelt"
	defaultServerVersion  = "1.0.0"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 30 * time.Second
)

// Config keys as they appear in config files and viper.
const (
	KeyServerName     = "serverName"
	KeyServerVersion  = "serverVersion"
	KeyIntegrations   = "integrations"
	KeyEnvFile        = "envFile"
	KeyLogFile        = "logFile"
	KeyLogLevel       = "logLevel"
	KeyMetricsAddr    = "metricsAddr"
	KeyExposeSchemas  = "exposeSchemas"
	KeyRequestTimeout = "requestTimeout"
)

// envNames maps each key to its environment variable suffix.
var envNames = map[string]string{
	KeyServerName:     "SERVER_NAME",
	KeyServerVersion:  "SERVER_VERSION",
	KeyIntegrations:   "INTEGRATIONS",
	KeyEnvFile:        "ENV_FILE",
	KeyLogFile:        "LOG_FILE",
	KeyLogLevel:       "LOG_LEVEL",
	KeyMetricsAddr:    "METRICS_ADDR",
	KeyExposeSchemas:  "EXPOSE_SCHEMAS",
	KeyRequestTimeout: "REQUEST_TIMEOUT",
}

// Config represents the top-level application configuration.
type Config struct {
	ServerName            string   `json:"serverName" mapstructure:"serverName"`
	ServerVersion         string   `json:"serverVersion" mapstructure:"serverVersion"`
	Integrations          []string `json:"integrations" mapstructure:"integrations"`
	EnvFile               string   `json:"envFile,omitempty" mapstructure:"envFile"`
	LogFile               string   `json:"logFile,omitempty" mapstructure:"logFile"`
	LogLevel              string   `json:"logLevel,omitempty" mapstructure:"logLevel"`
	MetricsAddr           string   `json:"metricsAddr,omitempty" mapstructure:"metricsAddr"`
	ExposeSchemas         bool     `json:"exposeSchemas" mapstructure:"exposeSchemas"`
	RequestTimeoutSeconds int      `json:"requestTimeout,omitempty" mapstructure:"requestTimeout"`
	ConfigPath            string   `json:"-" mapstructure:"-"`
}

// Name returns the MCP server name.
func (c Config) Name() string {
	if s := strings.TrimSpace(c.ServerName); s != "" {
		return s
	}
	return defaultServerName
}

// Version returns the MCP server version.
func (c Config) Version() string {
	if s := strings.TrimSpace(c.ServerVersion); s != "" {
		return s
	}
	return defaultServerVersion
}

// Level returns the log level name.
func (c Config) Level() string {
	if s := strings.TrimSpace(c.LogLevel); s != "" {
		return strings.ToLower(s)
	}
	return defaultLogLevel
}

// RequestTimeout returns the timeout duration for vendor HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LogFilePath returns the log file path, or "" to log to stderr only.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}

// IntegrationNames returns the requested integrations with blanks removed.
// A single comma separated entry is split.
func (c Config) IntegrationNames() []string {
	var out []string
	for _, raw := range c.Integrations {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Bind registers defaults and TOOLBELT_* environment bindings on v.
func Bind(v *viper.Viper) {
	v.SetDefault(KeyServerName, defaultServerName)
	v.SetDefault(KeyServerVersion, defaultServerVersion)
	v.SetDefault(KeyIntegrations, []string{})
	v.SetDefault(KeyEnvFile, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyExposeSchemas, false)
	v.SetDefault(KeyRequestTimeout, int(defaultRequestTimeout.Seconds()))
	for key, env := range envNames {
		_ = v.BindEnv(key, EnvPrefix+"_"+env)
	}
}

// Load reads the configuration at path merged with TOOLBELT_* environment
// variables and defaults. An empty path tries DefaultConfigPath and tolerates
// its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	Bind(v)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing {
			return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
		}
		if explicit {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		path = ""
	}
	return decode(v, path)
}

// FromViper materializes the merged state of v (flags > env > file > defaults).
func FromViper(v *viper.Viper) (Config, error) {
	return decode(v, v.ConfigFileUsed())
}

func decode(v *viper.Viper, path string) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = path
	return cfg, nil
}
