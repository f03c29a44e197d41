// Package config loads invoice-tex settings with viper. Sources, lowest to
// highest priority: defaults, config file, .env, INVOICE_TEX_* environment
// variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rezonia/invoice-tex/internal/finalize"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "INVOICE_TEX"

// Keys
const (
	KeyEngine              = "engine"
	KeyEngineArgs          = "engine_args"
	KeyTimeout             = "timeout"
	KeyCheckArtifact       = "check_artifact"
	KeyLogLevel            = "log.level"
	KeyLogFormat           = "log.format"
	KeyServerAddress       = "server.address"
	KeyServerDebug         = "server.debug"
	KeyServerReadTimeout   = "server.read_timeout"
	KeyServerWriteTimeout  = "server.write_timeout"
	KeyServerRenderTimeout = "server.render_timeout"
)

// Config is the complete application configuration
type Config struct {
	Engine        string        `mapstructure:"engine"`
	EngineArgs    []string      `mapstructure:"engine_args"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CheckArtifact bool          `mapstructure:"check_artifact"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Server ServerConfig `mapstructure:"server"`
}

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Address       string        `mapstructure:"address"`
	Debug         bool          `mapstructure:"debug"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEngine, finalize.DefaultEngine)
	v.SetDefault(KeyEngineArgs, finalize.DefaultArgs)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyCheckArtifact, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyServerAddress, ":8080")
	v.SetDefault(KeyServerDebug, false)
	v.SetDefault(KeyServerReadTimeout, 30*time.Second)
	v.SetDefault(KeyServerWriteTimeout, 2*time.Minute)
	v.SetDefault(KeyServerRenderTimeout, time.Minute)
}

// Load reads the optional .env and config file into v and decodes the result.
// An explicit file that cannot be read is an error; a missing default file is not.
func Load(v *viper.Viper, file string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("invoice-tex")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/invoice-tex")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot check by type
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Engine) == "" {
		return errors.New("config: engine must not be empty")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Server.RenderTimeout < 0 {
		return errors.New("config: server.render_timeout must not be negative")
	}
	return nil
}

// FinalizerOptions converts the engine settings into LaTeX finalizer options
func (c *Config) FinalizerOptions() []finalize.Option {
	return []finalize.Option{
		finalize.WithEngine(c.Engine),
		finalize.WithArgs(c.EngineArgs...),
		finalize.WithTimeout(c.Timeout),
		finalize.WithArtifactCheck(c.CheckArtifact),
	}
}
