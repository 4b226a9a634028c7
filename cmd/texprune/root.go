// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/texprune/cmd/texprune/opts"
	"github.com/walteh/texprune/pkg/config"
	"github.com/walteh/texprune/pkg/log"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rootFlags are the persistent flags of the root command
type rootFlags struct {
	configFile string
	debug      bool
	logFile    string
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", config.DefaultFile, "config file path")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write structured logs to a rotating file")
}

// setupLogging builds the structured logger. Debug events go to stderr,
// a log file gets JSON, and without either the events are dropped since the
// console already shows what happened.
func setupLogging(stderr io.Writer, debug bool, logFile string) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	switch {
	case logFile != "":
		w := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	case debug:
		return zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
	default:
		return zerolog.Nop()
	}
}

// loadConfig reads the config file. A missing default file is not an error,
// a missing file named with --config is.
func loadConfig(ctx context.Context, path string, explicit bool) (*config.Config, string, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using flags only")
			return &config.Config{}, "", nil
		}
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, "", errors.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

// newRootOpts fills ro from the parsed flags and returns a context carrying
// both loggers
func newRootOpts(ctx context.Context, cmd *cobra.Command, flags *rootFlags, ro *opts.RootOpts) (context.Context, error) {
	zlog := setupLogging(cmd.ErrOrStderr(), flags.debug, flags.logFile)
	ctx = zlog.WithContext(ctx)
	ro.Logger = log.New(cmd.OutOrStdout(), zlog)

	cfg, path, err := loadConfig(ctx, flags.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return ctx, err
	}

	if flags.logFile == "" && cfg.LogFile != "" {
		zlog = setupLogging(cmd.ErrOrStderr(), flags.debug, cfg.LogFile)
		ctx = zlog.WithContext(ctx)
		ro.Logger = log.New(cmd.OutOrStdout(), zlog)
	}

	ro.Config = cfg
	ro.ConfigFile = path

	return log.NewContext(ctx, ro.Logger), nil
}
