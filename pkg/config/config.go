package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Uploads   UploadsConfig
	Scoring   ScoringConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type StoreConfig struct {
	// Driver selects the report store backend: "file" or "sqlite".
	Driver     string
	Path       string
	SQLitePath string
}

type UploadsConfig struct {
	Dir string
}

type ScoringConfig struct {
	// Policy selects the credibility scorer: "basic" or "extended".
	Policy string
}

type RateLimitConfig struct {
	SubmitPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/whistlesafe")

	viper.SetEnvPrefix("WHISTLESAFE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q (want file or sqlite)", c.Store.Driver)
	}

	switch c.Scoring.Policy {
	case "basic", "extended":
	default:
		return fmt.Errorf("unknown scoring policy %q (want basic or extended)", c.Scoring.Policy)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 10485760)

	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.path", "./data/reports.json")
	viper.SetDefault("store.sqlitePath", "./data/reports.db")

	viper.SetDefault("uploads.dir", "./data/uploads")

	viper.SetDefault("scoring.policy", "extended")

	viper.SetDefault("ratelimit.submitPerMinute", 30)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
