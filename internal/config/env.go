package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are process level options read from the environment. CLI flags
// override them.
type Settings struct {
	DataPath  string `env:"DATA"`
	GeoPath   string `env:"GEO"`
	PropsPath string `env:"PROPS"`
	Variant   string `env:"VARIANT"`
	Watch     bool   `env:"WATCH" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

const envPrefix = "VAXMAP_"

// ParseEnv loads Settings from VAXMAP_* environment variables.
func ParseEnv() (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Prefix: envPrefix}); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
