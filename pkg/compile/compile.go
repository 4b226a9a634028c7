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

// Package compile runs an external LaTeX compiler over a pruned tree.
package compile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/executor"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Default compiler invocation.
const DefaultCommand = "latexmk"

// DefaultArgs are passed to DefaultCommand before the entry name.
var DefaultArgs = []string{"-pdf"}

// 🛠️ Command describes one compiler invocation
type Command struct {
	Dir   string   // Working directory, the destination root
	Name  string   // Program to run
	Args  []string // Arguments placed before the entry
	Entry string   // Entry file; its base name without extension is the last argument
}

// Argv returns the full argument vector, program first
func (c Command) Argv() []string {
	stem := strings.TrimSuffix(filepath.Base(c.Entry), filepath.Ext(c.Entry))
	argv := make([]string, 0, len(c.Args)+2)
	argv = append(argv, c.Name)
	argv = append(argv, c.Args...)
	return append(argv, stem)
}

// 🏃 Runner executes a command
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ❌ ExitError carries a non-zero compiler exit status
type ExitError struct {
	Code int
	err  error
}

func (e *ExitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.err
}

// ExecRunner runs commands as child processes
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner wired to the process's own stdout and stderr
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	argv := cmd.Argv()
	res, err := executor.New(argv[0], argv[1:]...).Execute(ctx,
		executor.WithCapture(false, false, false),
		executor.WithWorkingDir(cmd.Dir),
		executor.WithStdoutWriter(r.Stdout),
		executor.WithStderrWriter(r.Stderr),
	)
	if err != nil {
		if res != nil && res.ExitCode > 0 {
			return &ExitError{Code: res.ExitCode, err: errors.Errorf("%s exited with status %d", argv[0], res.ExitCode)}
		}
		return errors.Errorf("running %s: %w", argv[0], err)
	}
	return nil
}

// 🚀 Run validates cmd and hands it to runner
func Run(ctx context.Context, runner Runner, cmd Command) error {
	if cmd.Name == "" {
		return errors.Errorf("compiler command is required")
	}
	if cmd.Entry == "" {
		return errors.Errorf("entry file is required")
	}

	zerolog.Ctx(ctx).Debug().
		Strs("argv", cmd.Argv()).
		Str("dir", cmd.Dir).
		Msg("running compiler")

	return runner.Run(ctx, cmd)
}
