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

package compile_test

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/texprune/pkg/compile"
	"gitlab.com/tozd/go/errors"
)

// 🔧 recordingRunner captures commands instead of running them
type recordingRunner struct {
	got []compile.Command
	err error
}

func (r *recordingRunner) Run(ctx context.Context, cmd compile.Command) error {
	r.got = append(r.got, cmd)
	return r.err
}

func TestArgv(t *testing.T) {
	cmd := compile.Command{Name: "latexmk", Args: []string{"-pdf", "-quiet"}, Entry: "paper/main.tex"}
	assert.Equal(t, []string{"latexmk", "-pdf", "-quiet", "main"}, cmd.Argv())

	bare := compile.Command{Name: "latexit", Entry: "thesis.tex"}
	assert.Equal(t, []string{"latexit", "thesis"}, bare.Argv())
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name        string
		cmd         compile.Command
		errContains string
	}{
		{name: "missing_name", cmd: compile.Command{Entry: "main.tex"}, errContains: "compiler command is required"},
		{name: "missing_entry", cmd: compile.Command{Name: "latexmk"}, errContains: "entry file is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{}
			err := compile.Run(context.Background(), runner, tt.cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.Empty(t, runner.got, "runner should not be called")
		})
	}
}

func TestRunDelegates(t *testing.T) {
	runner := &recordingRunner{}
	cmd := compile.Command{Dir: "/tmp/out", Name: "latexmk", Args: compile.DefaultArgs, Entry: "main.tex"}

	require.NoError(t, compile.Run(context.Background(), runner, cmd))
	require.Len(t, runner.got, 1)
	assert.Equal(t, cmd, runner.got[0])
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		runner := &compile.ExecRunner{Stdout: &out, Stderr: &out}
		err := runner.Run(context.Background(), compile.Command{Dir: dir, Name: "sh", Args: []string{"-c", "echo built $0"}, Entry: "main.tex"})
		require.NoError(t, err)
		assert.Equal(t, "built main\n", out.String())
	})

	t.Run("working_dir", func(t *testing.T) {
		var out bytes.Buffer
		runner := &compile.ExecRunner{Stdout: &out}
		err := runner.Run(context.Background(), compile.Command{Dir: dir, Name: "sh", Args: []string{"-c", "pwd -P"}, Entry: "main.tex"})
		require.NoError(t, err)

		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		assert.Equal(t, want+"\n", out.String(), "compiler should run in the destination")
	})

	t.Run("exit_status", func(t *testing.T) {
		runner := &compile.ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
		err := runner.Run(context.Background(), compile.Command{Dir: dir, Name: "sh", Args: []string{"-c", "exit 3"}, Entry: "main.tex"})
		require.Error(t, err)

		var exitErr *compile.ExitError
		require.True(t, errors.As(err, &exitErr), "error should be an ExitError")
		assert.Equal(t, 3, exitErr.Code)
	})
}
