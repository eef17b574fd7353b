package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/atikulmunna/gastroguard/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// GASTROGUARD_STORE_DRIVER=memory.
const EnvPrefix = "GASTROGUARD"

type Config struct {
	Store      store.Config     `mapstructure:"store"`
	Profile    ProfileConfig    `mapstructure:"profile"`
	Export     ExportConfig     `mapstructure:"export"`
	Filter     FilterConfig     `mapstructure:"filter"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

type ProfileConfig struct {
	Path string `mapstructure:"path"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type FilterConfig struct {
	Field string `mapstructure:"field"` // logged | ingested
}

type SimulationConfig struct {
	Clamp bool `mapstructure:"clamp"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	SeedSessions bool          `mapstructure:"seed_sessions"`
	MaxSessions  int           `mapstructure:"max_sessions"`
	SessionIdle  time.Duration `mapstructure:"session_idle"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// Load reads path, or $HOME/.gastroguard.yaml and ./.gastroguard.yaml when
// path is empty. A missing default config file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".gastroguard")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", filepath.Join(dataDir, "entries.db"))
	v.SetDefault("profile.path", filepath.Join(dataDir, "profile.json"))
	v.SetDefault("export.dir", ".")
	v.SetDefault("filter.field", "logged")
	v.SetDefault("simulation.clamp", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.seed_sessions", true)
	v.SetDefault("server.max_sessions", store.DefaultMaxSessions)
	v.SetDefault("server.session_idle", store.DefaultSessionIdle)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.disable_caller", true)
	v.SetDefault("log.disable_stacktrace", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home != "" {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".gastroguard")
	}
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
