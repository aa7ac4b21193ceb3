package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// initViperConfig looks for an optional cmdName.{yaml,toml,json} holding
// flag defaults and maps CMDNAME_FLAG_NAME environment variables onto flags.
func initViperConfig(cmdName string, vip *viper.Viper) error {
	vip.SetConfigName(cmdName)
	vip.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		vip.AddConfigPath(filepath.Join(home, ".config", cmdName))
	}
	vip.AddConfigPath("/etc/" + cmdName)

	if err := vip.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return fmt.Errorf("invalid configuration file: %w", err)
		}
	}

	vip.SetEnvPrefix(cmdName)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	return nil
}

// newLogger returns a console logger whose level follows the -v count:
// warnings by default, info at -v, debug from -vv.
func newLogger(verbosity int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity == 1:
		level = zerolog.InfoLevel
	case verbosity >= 2:
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
