package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/haytac/emoji-scrub/internal/cleaner"
	"github.com/haytac/emoji-scrub/internal/csvout"
	"github.com/haytac/emoji-scrub/internal/logging"
)

// Default paths of the batch run. With no config file, no flags and no
// environment the tool reads DefaultInput and writes DefaultOutput.
const (
	DefaultInput  = "Book1.xlsx"
	DefaultOutput = "no_emoji.csv"
)

// ServeConfig configures the HTTP surface.
type ServeConfig struct {
	Addr           string  `mapstructure:"addr"`
	RateLimit      float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst          int     `mapstructure:"burst"`
	MaxUploadBytes int64   `mapstructure:"max_upload_bytes"`
}

// AppConfig holds the application configuration.
type AppConfig struct {
	Input           string          `mapstructure:"input"`
	Output          string          `mapstructure:"output"`
	Sheet           string          `mapstructure:"sheet"`
	DatabasePath    string          `mapstructure:"database_path"` // run history; empty disables it
	MetricsTextfile string          `mapstructure:"metrics_textfile"`
	Log             logging.Config  `mapstructure:"log"`
	Clean           cleaner.Options `mapstructure:"clean"`
	CSV             csvout.Options  `mapstructure:"csv"`
	Serve           ServeConfig     `mapstructure:"serve"`
	DryRun          bool            `mapstructure:"dry_run"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("input", DefaultInput)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("sheet", "")
	v.SetDefault("database_path", "")
	v.SetDefault("metrics_textfile", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.console", true)
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("clean.strip_shortcodes", false)
	v.SetDefault("clean.strip_markup", false)
	v.SetDefault("csv.bom", false)
	v.SetDefault("csv.crlf", false)
	v.SetDefault("csv.date_format", "2006-01-02 15:04:05")
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.rate_limit", 5)
	v.SetDefault("serve.burst", 10)
	v.SetDefault("serve.max_upload_bytes", 32<<20)
	v.SetDefault("dry_run", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.emoji-scrub")
		v.AddConfigPath("/etc/emoji-scrub/")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix("EMOJI_SCRUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
