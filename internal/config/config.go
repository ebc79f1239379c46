package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Board    Board   `yaml:"board"`
	Players  Players `yaml:"players"`
	Redis    Redis   `yaml:"redis"`
}

type Board struct {
	Height int `yaml:"height" env:"BOARD_HEIGHT" env-default:"6"`
	Width  int `yaml:"width" env:"BOARD_WIDTH" env-default:"7"`
}

type Players struct {
	First      string `yaml:"first" env:"PLAYER_FIRST" env-default:"red"`
	Second     string `yaml:"second" env:"PLAYER_SECOND" env-default:"yellow"`
	Background string `yaml:"background" env:"BOARD_BACKGROUND" env-default:"skyblue"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the yaml file at path; environment variables override it. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
