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

package status_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/texprune/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🧪 createTestManager creates a manager over an in-memory tree
func createTestManager(t *testing.T) (context.Context, *status.Manager, billy.Filesystem) {
	fsys := memfs.New()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())
	return ctx, status.New(fsys, &logger), fsys
}

func writeFile(t *testing.T, fsys billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fsys billy.Filesystem, path string) string {
	t.Helper()
	content, err := util.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(content)
}

func TestCopyFileStatus(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, fsys billy.Filesystem)
		wantStatus status.FileStatus
		wantBody   string
	}{
		{
			name: "new_file",
			setup: func(t *testing.T, fsys billy.Filesystem) {
				writeFile(t, fsys, "src/main.tex", "hello")
			},
			wantStatus: status.StatusNew,
			wantBody:   "hello",
		},
		{
			name: "unchanged_file",
			setup: func(t *testing.T, fsys billy.Filesystem) {
				writeFile(t, fsys, "src/main.tex", "hello")
				writeFile(t, fsys, "out/src/main.tex", "hello")
			},
			wantStatus: status.StatusUnchanged,
			wantBody:   "hello",
		},
		{
			name: "modified_file",
			setup: func(t *testing.T, fsys billy.Filesystem) {
				writeFile(t, fsys, "src/main.tex", "hello again")
				writeFile(t, fsys, "out/src/main.tex", "hello")
			},
			wantStatus: status.StatusModified,
			wantBody:   "hello again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, mgr, fsys := createTestManager(t)
			tt.setup(t, fsys)

			info, err := mgr.CopyFile(ctx, "src/main.tex", "out/src/main.tex", status.KindSource)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, info.Status, "status should match")
			assert.Equal(t, status.KindSource, info.Kind)
			assert.Equal(t, "src/main.tex", info.Source)
			assert.Equal(t, int64(len(tt.wantBody)), info.Size)
			assert.Len(t, info.Checksum, 64)
			assert.Equal(t, tt.wantBody, readFile(t, fsys, "out/src/main.tex"))

			_, err = fsys.Stat("out/src/main.tex.tmp")
			assert.True(t, os.IsNotExist(err), "temp file should not linger")
		})
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	ctx, mgr, _ := createTestManager(t)

	_, err := mgr.CopyFile(ctx, "nope.png", "out/nope.png", status.KindGraphic)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "error should match os.ErrNotExist")
	assert.Empty(t, mgr.ListFiles(ctx), "nothing should be tracked")
}

func TestCopyFileUnreadableSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "figs"), 0o755))

	fsys := osfs.New(dir)
	logger := zerolog.New(zerolog.NewTestWriter(t))
	mgr := status.New(fsys, &logger)
	ctx := logger.WithContext(context.Background())

	_, err := mgr.CopyFile(ctx, "figs", "out/figs", status.KindGraphic)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnreadableSource), "error should match ErrUnreadableSource")
	assert.False(t, errors.Is(err, os.ErrNotExist), "an existing directory is not missing")
	assert.Empty(t, mgr.ListFiles(ctx), "nothing should be tracked")
}

func TestTrackingOrderAndReplacement(t *testing.T) {
	ctx, mgr, fsys := createTestManager(t)
	writeFile(t, fsys, "a/fig.png", "A")
	writeFile(t, fsys, "b/fig.png", "B")
	writeFile(t, fsys, "main.tex", "M")

	_, err := mgr.CopyFile(ctx, "main.tex", "out/main.tex", status.KindSource)
	require.NoError(t, err)
	_, err = mgr.CopyFile(ctx, "a/fig.png", "out/fig.png", status.KindGraphic)
	require.NoError(t, err)
	_, err = mgr.CopyFile(ctx, "b/fig.png", "out/fig.png", status.KindGraphic)
	require.NoError(t, err)

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 2)
	assert.Equal(t, "out/main.tex", files[0].Path)
	assert.Equal(t, "out/fig.png", files[1].Path)
	assert.Equal(t, "b/fig.png", files[1].Source, "last write should win")
	assert.Equal(t, status.StatusModified, files[1].Status)
	assert.Equal(t, "B", readFile(t, fsys, "out/fig.png"))
	assert.Equal(t, status.StatusNew, files[0].Status)
}

func TestFormatter(t *testing.T) {
	f := status.NewDefaultFileFormatter()

	assert.Equal(t, "✨ Created out/a.tex", f.FormatCopy(status.FileInfo{Path: "out/a.tex", Status: status.StatusNew}))
	assert.Equal(t, "📝 Modified out/a.tex", f.FormatCopy(status.FileInfo{Path: "out/a.tex", Status: status.StatusModified}))
	assert.Equal(t, "👍 Unchanged out/a.tex", f.FormatCopy(status.FileInfo{Path: "out/a.tex", Status: status.StatusUnchanged}))

	summary := f.FormatSummary([]status.FileInfo{
		{Status: status.StatusNew},
		{Status: status.StatusNew},
		{Status: status.StatusUnchanged},
	})
	assert.Equal(t, "3 files: 2 created, 0 modified, 1 unchanged", summary)
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "new", status.StatusNew.String())
	assert.Equal(t, "modified", status.StatusModified.String())
	assert.Equal(t, "unchanged", status.StatusUnchanged.String())
	assert.Equal(t, "unknown", status.StatusUnknown.String())
}
