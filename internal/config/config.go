// Package config loads the vtctl settings from flags, the environment
// (VTCTL_*) and an optional yaml file.
package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/srlehn/termvt"
	"github.com/srlehn/termvt/internal/consts"
	"github.com/srlehn/termvt/internal/errors"
)

const (
	KeyConsolePath    = `console.path`
	KeyTTYFormat      = `console.tty_format`
	KeyBlankTimerPath = `console.blank_timer_path`
	KeyLogFile        = `log.file`
	KeyLogLevel       = `log.level`
)

type Config struct {
	Console ConsoleConfig `mapstructure:"console"`
	Log     LogConfig     `mapstructure:"log"`
}

type ConsoleConfig struct {
	Path           string `mapstructure:"path"`
	TTYFormat      string `mapstructure:"tty_format"`
	BlankTimerPath string `mapstructure:"blank_timer_path"`
}

type LogConfig struct {
	// File is the log destination, logging is off if empty.
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load reads the configuration into v. cfgFile overrides the search for
// vtctl.yaml in the working directory, ~/.config/vtctl and /etc/vtctl.
// A missing config file is not an error unless cfgFile names it.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		return nil, errors.NilParam()
	}
	if len(cfgFile) > 0 {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(`vtctl`)
		v.SetConfigType(`yaml`)
		v.AddConfigPath(`.`)
		v.AddConfigPath(`$HOME/.config/vtctl`)
		v.AddConfigPath(`/etc/vtctl/`)
	}

	// VTCTL_CONSOLE_PATH, VTCTL_LOG_LEVEL, ...
	v.SetEnvPrefix(`VTCTL`)
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	v.AutomaticEnv()
	for _, key := range []string{KeyConsolePath, KeyTTYFormat, KeyBlankTimerPath, KeyLogFile, KeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.New(err)
		}
	}

	v.SetDefault(KeyConsolePath, consts.DefaultConsolePath)
	v.SetDefault(KeyTTYFormat, consts.DefaultTTYPathFormat)
	v.SetDefault(KeyBlankTimerPath, consts.DefaultBlankTimerPath)
	v.SetDefault(KeyLogLevel, `info`)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if len(cfgFile) > 0 || !errors.As(err, &notFound) {
			return nil, errors.WrapPrefix(err, `reading config file`, 0)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapPrefix(err, `decoding config`, 0)
	}
	return &cfg, nil
}

// Options converts the console settings into options for termvt.Open.
func (c *Config) Options() termvt.Options {
	if c == nil {
		return nil
	}
	return termvt.Options{
		termvt.SetConsolePath(c.Console.Path),
		termvt.SetTTYPathFormat(c.Console.TTYFormat),
		termvt.SetBlankTimerPath(c.Console.BlankTimerPath),
	}
}

// SlogLevel parses the level names understood by log/slog ("debug", "warn+2", ...).
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if len(l.Level) == 0 {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, errors.New(err)
	}
	return lvl, nil
}
