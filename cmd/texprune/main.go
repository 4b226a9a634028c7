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
	"github.com/walteh/texprune/cmd/texprune/commands"
	"github.com/walteh/texprune/cmd/texprune/opts"
	"github.com/walteh/texprune/pkg/compile"
	"github.com/walteh/texprune/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ro := &opts.RootOpts{Runner: compile.NewExecRunner()}
	if err := newCommand(ro).ExecuteContext(context.Background()); err != nil {
		reportError(ro, os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// 🌳 NewCommand builds the root command with every subcommand attached
func NewCommand() *cobra.Command {
	return newCommand(&opts.RootOpts{Runner: compile.NewExecRunner()})
}

// reportError prints err through the run's logger, or to stderr when the
// command failed before one was set up
func reportError(ro *opts.RootOpts, stderr io.Writer, err error) {
	logger := ro.Logger
	if logger == nil {
		logger = log.New(stderr, zerolog.Nop())
	}
	logger.Error(err.Error())
}

func newCommand(ro *opts.RootOpts) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "texprune",
		Short: "Copy only the files a LaTeX document needs",
		Long: `texprune starts from an entry file, follows \input and \includegraphics
references that are not commented out, and copies what it reaches into a
clean directory next to the entry file. Style, class and bibliography files
beside the entry are copied too.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newRootOpts(cmd.Context(), cmd, flags, ro)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewPruneCmd(ro),
		commands.NewScanCmd(ro),
		newVersionCmd(),
	)

	return cmd
}

// exitCode maps a compiler failure to its own status, anything else to 1
func exitCode(err error) int {
	var exitErr *compile.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
