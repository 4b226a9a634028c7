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

// Package extras copies auxiliary files (styles, classes, bibliographies)
// that are needed to compile but never referenced through a traced directive.
package extras

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/texprune/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are copied when no extension list is configured.
var DefaultExtensions = []string{"sty", "cls", "bst", "bib", "clo"}

// copyLimit bounds concurrent copies.
const copyLimit = 4

// 📋 Copier places one file into the destination tree
type Copier interface {
	CopyFile(ctx context.Context, src, dst string, kind status.FileKind) (status.FileInfo, error)
}

// 🔍 Pattern builds the doublestar pattern matching any of exts.
// Leading dots and blanks are ignored; an empty list matches nothing.
func Pattern(exts []string) string {
	cleaned := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			cleaned = append(cleaned, ext)
		}
	}
	switch len(cleaned) {
	case 0:
		return ""
	case 1:
		return "*." + cleaned[0]
	default:
		return "*.{" + strings.Join(cleaned, ",") + "}"
	}
}

// 📦 Copy copies every regular file directly inside srcDir whose extension is
// one of exts into destRoot, flattened to its base name. Subdirectories are
// not searched. Results are sorted by destination path.
func Copy(ctx context.Context, fsys billy.Filesystem, srcDir, destRoot string, exts []string, copier Copier) ([]status.FileInfo, error) {
	logger := zerolog.Ctx(ctx)

	pattern := Pattern(exts)
	if pattern == "" {
		return []status.FileInfo{}, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid extension pattern %q", pattern)
	}

	entries, err := fsys.ReadDir(srcDir)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", srcDir, err)
	}

	var matched []string
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return nil, errors.Errorf("matching %s: %w", entry.Name(), err)
		}
		if ok {
			matched = append(matched, entry.Name())
		}
	}

	results := make([]status.FileInfo, len(matched))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copyLimit)
	for i, name := range matched {
		g.Go(func() error {
			src := filepath.Join(srcDir, name)
			info, err := copier.CopyFile(gctx, src, filepath.Join(destRoot, name), status.KindExtra)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					logger.Debug().Str("file", src).Msg("extra vanished before copy")
					return nil
				}
				return errors.Errorf("copying %s: %w", src, err)
			}
			results[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, info := range results {
		if info.Path != "" {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	logger.Debug().Str("pattern", pattern).Int("copied", len(out)).Msg("copied extra files")
	return out, nil
}
