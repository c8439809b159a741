package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTP      `yaml:"http"`
	Game      Game      `yaml:"game"`
	Redis     Redis     `yaml:"redis"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr string `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
}

type Game struct {
	DefaultMode  string        `yaml:"default-mode" env:"GAME_DEFAULT_MODE" env-default:"pvc"`
	BotMark      string        `yaml:"bot-mark" env:"GAME_BOT_MARK" env-default:"O"`
	BotDelay     time.Duration `yaml:"bot-delay" env:"GAME_BOT_DELAY" env-default:"350ms"`
	SessionTTL   time.Duration `yaml:"session-ttl" env:"GAME_SESSION_TTL" env-default:"30m"`
	ReapInterval time.Duration `yaml:"reap-interval" env:"GAME_REAP_INTERVAL" env-default:"1m"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr    string `yaml:"addr" env:"REDIS_CONNSTRING" env-default:"localhost:6379"`
}

type Telemetry struct {
	Enabled      bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	OTLPEndpoint string `yaml:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"otel-collector:4317"`
	ServiceName  string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-toe"`
	Stdout       bool   `yaml:"stdout" env:"OTEL_STDOUT" env-default:"false"`
}

// Load reads the YAML file at path, or only the environment when path is
// empty. Environment variables override the file.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoad - load all configurations, panicking on failure.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func (that *Config) Validate() error {
	switch that.Game.DefaultMode {
	case "pvp", "pvc":
	default:
		return fmt.Errorf("%w: game.default-mode %q", ErrInvalidConfig, that.Game.DefaultMode)
	}

	switch that.Game.BotMark {
	case "X", "O":
	default:
		return fmt.Errorf("%w: game.bot-mark %q", ErrInvalidConfig, that.Game.BotMark)
	}

	if that.Game.BotDelay < 0 {
		return fmt.Errorf("%w: game.bot-delay must not be negative", ErrInvalidConfig)
	}
	if that.Game.SessionTTL <= 0 || that.Game.ReapInterval <= 0 {
		return fmt.Errorf("%w: game.session-ttl and game.reap-interval must be positive", ErrInvalidConfig)
	}
	return nil
}
