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

package commands

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/texprune/cmd/texprune/opts"
	"github.com/walteh/texprune/pkg/collect"
	"github.com/walteh/texprune/pkg/compile"
	"github.com/walteh/texprune/pkg/config"
	"github.com/walteh/texprune/pkg/lock"
	"github.com/walteh/texprune/pkg/log"
	"github.com/walteh/texprune/pkg/operation"
	"github.com/walteh/texprune/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// pruneFlags override values from the config file when set
type pruneFlags struct {
	main         string
	dest         string
	exts         []string
	compile      bool
	compiler     string
	compilerArgs []string
}

// NewPruneCmd creates the prune command
func NewPruneCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune [main.tex]",
		Short: "Copy the files an entry document needs into a clean directory",
		Long: `Prune traces the entry file and copies what it reaches.
It will:
1. Follow every live \input into other source files
2. Copy every live \includegraphics target
3. Copy style, class and bibliography files next to the entry
4. Optionally run the compiler inside the new tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mergePruneConfig(cmd, opts.Config, flags, args)
			if err != nil {
				return err
			}
			return runPrune(cmd.Context(), opts.Runner, cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.main, "main", "m", "", "entry file")
	cmd.Flags().StringVar(&flags.dest, "dest", "", "destination, relative to the entry file's directory (default \""+operation.DefaultDestination+"\")")
	cmd.Flags().StringSliceVar(&flags.exts, "ext", nil, "extensions of auxiliary files to copy")
	cmd.Flags().BoolVar(&flags.compile, "compile", false, "run the compiler in the destination afterwards")
	cmd.Flags().StringVar(&flags.compiler, "compiler", "", "compiler program (default \""+compile.DefaultCommand+"\")")
	cmd.Flags().StringArrayVar(&flags.compilerArgs, "compiler-arg", nil, "argument passed to the compiler, repeatable")

	return cmd
}

// mergePruneConfig layers flags and the positional entry over base and validates the result
func mergePruneConfig(cmd *cobra.Command, base *config.Config, flags *pruneFlags, args []string) (*config.Config, error) {
	cfg := &config.Config{}
	if base != nil {
		*cfg = *base
	}
	comp := config.Compile{}
	if cfg.Compile != nil {
		comp = *cfg.Compile
	}
	cfg.Compile = &comp

	switch {
	case len(args) == 1 && flags.main != "" && args[0] != flags.main:
		return nil, errors.Errorf("entry given twice: %s and --main %s", args[0], flags.main)
	case len(args) == 1:
		cfg.Main = args[0]
	case flags.main != "":
		cfg.Main = flags.main
	}

	if cmd.Flags().Changed("dest") {
		cfg.Destination = flags.dest
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extensions = flags.exts
	}
	if cmd.Flags().Changed("compile") {
		cfg.Compile.Enabled = flags.compile
	}
	if cmd.Flags().Changed("compiler") {
		cfg.Compile.Command = flags.compiler
		cfg.Compile.Args = nil
	}
	if cmd.Flags().Changed("compiler-arg") {
		cfg.Compile.Args = flags.compilerArgs
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// runPrune locks the destination, prunes, prints the result and compiles
func runPrune(ctx context.Context, runner compile.Runner, cfg *config.Config) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	absMain, err := filepath.Abs(cfg.Main)
	if err != nil {
		return errors.Errorf("getting absolute entry path: %w", err)
	}
	absDest := operation.DestRoot(absMain, cfg.Destination)

	// fail before touching anything when the entry cannot be mirrored
	mirroredMain, err := collect.MirrorPath(absDest, absMain)
	if err != nil {
		return err
	}

	lk := lock.ForDestination(absDest)
	if err := lk.TryLock(); err != nil {
		return errors.Errorf("locking %s: %w", absDest, err)
	}
	defer func() {
		if err := lk.Unlock(); err != nil {
			logger.Warn().Err(err).Str("lock", lk.Path()).Msg("releasing lock")
		}
	}()

	// the tree is rooted where the destination mirrors from, so every
	// path handed to the pipeline is relative to it
	root := filepath.Dir(absDest)
	relMain, err := filepath.Rel(root, absMain)
	if err != nil {
		return errors.Errorf("relating %s to %s: %w", absMain, root, err)
	}
	relDest, err := filepath.Rel(filepath.Dir(absMain), absDest)
	if err != nil {
		return errors.Errorf("relating %s to %s: %w", absDest, absMain, err)
	}

	logger.Debug().Str("root", root).Str("main", relMain).Str("dest", relDest).Msg("prune paths")

	console.StartPrune(ctx, log.PruneRun{Main: cfg.Main, Destination: absDest})
	defer console.EndPrune(ctx)

	report, err := operation.Prune(ctx, operation.Options{
		FS:          osfs.New(root),
		Main:        relMain,
		Destination: relDest,
		Extensions:  cfg.Extensions,
	})
	if err != nil {
		return errors.Errorf("pruning %s: %w", cfg.Main, err)
	}

	all := make([]status.FileInfo, 0, len(report.Files)+len(report.Extras))
	all = append(all, report.Files...)
	all = append(all, report.Extras...)
	for _, f := range all {
		console.LogFile(ctx, f)
	}
	for _, d := range report.Diagnostics {
		console.LogDiagnostic(ctx, d)
	}

	console.LogNewline()
	console.Successf("%s in %s", status.NewDefaultFileFormatter().FormatSummary(all), absDest)
	if n := len(report.Diagnostics); n > 0 {
		console.Warningf("%d warnings", n)
	}

	if !cfg.Compile.Enabled {
		return nil
	}

	if runner == nil {
		runner = compile.NewExecRunner()
	}
	console.Infof("compiling with %s", cfg.Compile.Command)
	return compile.Run(ctx, runner, compile.Command{
		Dir:   filepath.Dir(mirroredMain),
		Name:  cfg.Compile.Command,
		Args:  cfg.Compile.Args,
		Entry: mirroredMain,
	})
}
