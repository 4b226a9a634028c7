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

package extras_test

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/texprune/pkg/extras"
	"github.com/walteh/texprune/pkg/status"
)

func TestPattern(t *testing.T) {
	tests := []struct {
		name string
		exts []string
		want string
	}{
		{name: "empty", exts: nil, want: ""},
		{name: "single", exts: []string{"sty"}, want: "*.sty"},
		{name: "many", exts: []string{"sty", "cls", "bib"}, want: "*.{sty,cls,bib}"},
		{name: "dots_and_blanks", exts: []string{".sty", " ", " bst "}, want: "*.{sty,bst}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extras.Pattern(tt.exts))
		})
	}
}

func TestCopy(t *testing.T) {
	fsys := memfs.New()
	for path, content := range map[string]string{
		"paper/main.tex":          "m",
		"paper/custom.sty":        "sty",
		"paper/refs.bib":          "bib",
		"paper/journal.cls":       "cls",
		"paper/notes.txt":         "txt",
		"paper/nested/deep.sty":   "deep",
		"paper/tex_cleaned/x.sty": "stale",
	} {
		require.NoError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
	}

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())
	mgr := status.New(fsys, &logger)

	files, err := extras.Copy(ctx, fsys, "paper", "paper/tex_cleaned", extras.DefaultExtensions, mgr)
	require.NoError(t, err)

	paths := []string{}
	for _, info := range files {
		paths = append(paths, info.Path)
		assert.Equal(t, status.KindExtra, info.Kind)
	}
	assert.Equal(t, []string{
		"paper/tex_cleaned/custom.sty",
		"paper/tex_cleaned/journal.cls",
		"paper/tex_cleaned/refs.bib",
	}, paths, "only top-level matches should be copied")

	content, err := util.ReadFile(fsys, "paper/tex_cleaned/refs.bib")
	require.NoError(t, err)
	assert.Equal(t, "bib", string(content))
}

func TestCopyNoExtensions(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "paper/a.sty", []byte("a"), 0o644))

	files, err := extras.Copy(context.Background(), fsys, "paper", "paper/out", nil, status.New(fsys, nil))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCopyMissingDir(t *testing.T) {
	fsys := memfs.New()

	_, err := extras.Copy(context.Background(), fsys, "nowhere", "nowhere/out", extras.DefaultExtensions, status.New(fsys, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading nowhere")
}
