package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "LLMCHAT"
	DefaultEnvFile = ".env"

	redacted = "********"
)

// ServerConfig defines the HTTP server configuration.
type ServerConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	StaticDir  string `yaml:"static_dir" mapstructure:"static_dir"`
	CorsOrigin string `yaml:"cors_origin" mapstructure:"cors_origin"`
}

// OpenAiConfig defines the configuration of the chatgpt provider.
type OpenAiConfig struct {
	ApiKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	BaseUrl     string  `yaml:"base_url" mapstructure:"base_url"`
}

// GeminiConfig defines the configuration of the gemini provider. Setting both
// project and location selects the Vertex AI backend.
type GeminiConfig struct {
	ApiKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	Project     string  `yaml:"project" mapstructure:"project"`
	Location    string  `yaml:"location" mapstructure:"location"`
}

func (c GeminiConfig) UseVertex() bool {
	return c.Project != "" && c.Location != ""
}

type ChatConfig struct {
	ProviderTimeout time.Duration `yaml:"provider_timeout" mapstructure:"provider_timeout"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// Config is the top-level configuration struct.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	OpenAi  OpenAiConfig  `yaml:"openai" mapstructure:"openai"`
	Gemini  GeminiConfig  `yaml:"gemini" mapstructure:"gemini"`
	Chat    ChatConfig    `yaml:"chat" mapstructure:"chat"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// Sources lists where configuration is read from, on top of the defaults and
// the environment.
type Sources struct {
	// ConfigFile is an optional YAML file.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the environment. It is ignored
	// when it does not exist.
	EnvFile string
}

var defaults = map[string]any{
	"server.host":           "0.0.0.0",
	"server.port":           5001,
	"server.static_dir":     "",
	"server.cors_origin":    "*",
	"openai.api_key":        "",
	"openai.model":          "gpt-3.5-turbo-0125",
	"openai.temperature":    0.7,
	"openai.base_url":       "",
	"gemini.api_key":        "",
	"gemini.model":          "gemini-1.5-pro",
	"gemini.temperature":    0.7,
	"gemini.project":        "",
	"gemini.location":       "",
	"chat.provider_timeout": 60 * time.Second,
	"logging.level":         "info",
	"logging.format":        "text",
	"logging.output":        "stdout",
}

// Credentials are also read from the variables the provider SDKs use.
var aliases = map[string]string{
	"openai.api_key": "OPENAI_API_KEY",
	"gemini.api_key": "GOOGLE_API_KEY",
}

// Load builds the configuration from, by increasing precedence, the defaults,
// the configuration file and the environment.
func Load(sources Sources) (*Config, error) {
	if sources.EnvFile != "" {
		if err := godotenv.Load(sources.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "could not load environment file %s", sources.EnvFile)
		}
	}

	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range aliases {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))

		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, errors.Wrapf(err, "could not bind %s to the environment", key)
		}
	}

	if sources.ConfigFile != "" {
		v.SetConfigFile(sources.ConfigFile)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config file at %s", sources.ConfigFile)
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "could not decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Config) Validate() error {
	var err error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		err = errors.CombineErrors(err, errors.Newf("server port %d is out of range", c.Server.Port))
	}
	if c.Chat.ProviderTimeout < 0 {
		err = errors.CombineErrors(err, errors.Newf("provider timeout %s cannot be negative", c.Chat.ProviderTimeout))
	}

	return err
}

// Redacted returns a copy of the configuration safe to be displayed.
func (c Config) Redacted() Config {
	if c.OpenAi.ApiKey != "" {
		c.OpenAi.ApiKey = redacted
	}
	if c.Gemini.ApiKey != "" {
		c.Gemini.ApiKey = redacted
	}

	return c
}
