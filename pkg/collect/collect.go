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

// Package collect traces a LaTeX document from its entry file and mirrors
// every reachable file into a destination tree.
package collect

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/texprune/pkg/diag"
	"github.com/walteh/texprune/pkg/scan"
	"github.com/walteh/texprune/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📋 Copier places one file into the destination tree
type Copier interface {
	CopyFile(ctx context.Context, src, dst string, kind status.FileKind) (status.FileInfo, error)
}

// 🕸️ Collector traces inclusion and image edges from an entry file and copies
// every reachable file to its mirror path under the destination root.
//
// Each file is scanned once per Collector; an inclusion edge back onto the
// file currently being traced is reported as a cycle and not followed.
type Collector struct {
	fs       billy.Filesystem
	destRoot string
	copier   Copier
	sink     diag.Sink

	visited map[string]bool
	active  map[string]bool
}

// 🏭 New creates a collector; a nil sink discards diagnostics
func New(fsys billy.Filesystem, destRoot string, copier Copier, sink diag.Sink) *Collector {
	if sink == nil {
		sink = diag.Discard
	}
	return &Collector{
		fs:       fsys,
		destRoot: filepath.Clean(destRoot),
		copier:   copier,
		sink:     sink,
		visited:  make(map[string]bool),
		active:   make(map[string]bool),
	}
}

// 🏃 Collect copies file, its images, and recursively its inclusions.
// Missing or unreadable sources and comment anomalies are reported to the
// sink; only an unresolvable destination or a failure writing the
// destination is returned.
func (c *Collector) Collect(ctx context.Context, file string) error {
	logger := zerolog.Ctx(ctx)
	file = filepath.Clean(file)

	if c.active[file] {
		c.sink.Report(diag.Diagnostic{
			Kind:    diag.KindIncludeCycle,
			Path:    file,
			Message: "inclusion cycle, not followed again",
		})
		return nil
	}
	if c.visited[file] {
		logger.Debug().Str("file", file).Msg("already collected")
		return nil
	}
	c.visited[file] = true
	c.active[file] = true
	defer delete(c.active, file)

	if err := ctx.Err(); err != nil {
		return errors.Errorf("collecting %s: %w", file, err)
	}

	copied, err := c.copy(ctx, file, status.KindSource)
	if err != nil {
		return err
	}
	if !copied {
		return nil
	}

	res, err := scan.Scan(ctx, c.fs, file, c.sink)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.reportMissing(file)
			return nil
		}
		c.reportUnreadable(file, err)
		return nil
	}

	for _, graphic := range res.Graphics() {
		if _, err := c.copy(ctx, Resolve(file, graphic), status.KindGraphic); err != nil {
			return err
		}
	}

	for _, input := range res.Inputs() {
		if err := c.Collect(ctx, Resolve(file, input)); err != nil {
			return err
		}
	}

	return nil
}

// copy mirrors src under the destination root. It reports false with a nil
// error when src does not exist.
func (c *Collector) copy(ctx context.Context, src string, kind status.FileKind) (bool, error) {
	dst, err := MirrorPath(c.destRoot, src)
	if err != nil {
		return false, err
	}

	if _, err := c.copier.CopyFile(ctx, src, dst, kind); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.reportMissing(src)
			return false, nil
		}
		if errors.Is(err, status.ErrUnreadableSource) {
			c.reportUnreadable(src, err)
			return false, nil
		}
		return false, errors.Errorf("copying %s: %w", src, err)
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Str("kind", string(kind)).Msg("copied")
	return true, nil
}

func (c *Collector) reportMissing(path string) {
	c.sink.Report(diag.Diagnostic{
		Kind:    diag.KindMissingFile,
		Path:    path,
		Message: "file not found",
	})
}

func (c *Collector) reportUnreadable(path string, err error) {
	c.sink.Report(diag.Diagnostic{
		Kind:    diag.KindUnreadableFile,
		Path:    path,
		Message: "file not readable: " + err.Error(),
	})
}
