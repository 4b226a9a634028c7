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

package operation

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/texprune/pkg/collect"
	"github.com/walteh/texprune/pkg/diag"
	"github.com/walteh/texprune/pkg/extras"
	"github.com/walteh/texprune/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DefaultDestination is created next to the entry file when none is given.
const DefaultDestination = "tex_cleaned"

// 🔧 Options configures a prune
type Options struct {
	// FS holds both the source tree and the destination
	FS billy.Filesystem
	// Main is the entry file
	Main string
	// Destination is relative to the directory of Main
	Destination string
	// Extensions of auxiliary files copied from the directory of Main
	Extensions []string
}

// 📊 Report is what a prune produced
type Report struct {
	DestRoot    string
	Files       []status.FileInfo // traced files, in copy order
	Extras      []status.FileInfo // auxiliary files, by name
	Diagnostics []diag.Diagnostic // in detection order
}

// DestRoot is the destination root for an entry file and a destination
// relative to the entry's directory.
func DestRoot(main, destination string) string {
	if destination == "" {
		destination = DefaultDestination
	}
	if filepath.IsAbs(destination) {
		return filepath.Clean(destination)
	}
	return filepath.Join(filepath.Dir(main), destination)
}

// 📦 PruneOperation copies the files an entry document needs into a clean tree
type PruneOperation struct {
	opts   Options
	report *Report
}

// 🏭 NewPruneOperation validates opts
func NewPruneOperation(opts Options) (*PruneOperation, error) {
	if opts.FS == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if opts.Main == "" {
		return nil, errors.Errorf("main file is required")
	}
	if opts.Destination == "" {
		opts.Destination = DefaultDestination
	}
	return &PruneOperation{opts: opts}, nil
}

// 🏃 Execute runs the prune; Report is available once it returns nil
func (op *PruneOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	destRoot := DestRoot(op.opts.Main, op.opts.Destination)

	logger.Debug().Str("main", op.opts.Main).Str("dest", destRoot).Msg("starting prune")

	if err := op.opts.FS.MkdirAll(destRoot, 0o755); err != nil {
		return errors.Errorf("creating destination %s: %w", destRoot, err)
	}

	var sink diag.List
	mgr := status.New(op.opts.FS, logger)

	if err := collect.New(op.opts.FS, destRoot, mgr, &sink).Collect(ctx, op.opts.Main); err != nil {
		return errors.Errorf("collecting %s: %w", op.opts.Main, err)
	}
	traced := mgr.ListFiles(ctx)

	extra, err := extras.Copy(ctx, op.opts.FS, filepath.Dir(op.opts.Main), destRoot, op.opts.Extensions, mgr)
	if err != nil {
		return errors.Errorf("copying extra files: %w", err)
	}

	op.report = &Report{
		DestRoot:    destRoot,
		Files:       traced,
		Extras:      extra,
		Diagnostics: sink.All(),
	}

	logger.Debug().
		Int("files", len(traced)).
		Int("extras", len(extra)).
		Int("warnings", len(op.report.Diagnostics)).
		Msg("prune complete")

	return nil
}

// Report returns the result of the last successful Execute
func (op *PruneOperation) Report() *Report {
	return op.report
}

// 📋 Prune builds and executes a PruneOperation
func Prune(ctx context.Context, opts Options) (*Report, error) {
	op, err := NewPruneOperation(opts)
	if err != nil {
		return nil, err
	}
	if err := op.Execute(ctx); err != nil {
		return nil, err
	}
	return op.Report(), nil
}
