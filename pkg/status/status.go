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

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrUnreadableSource means a source path exists but its content could not be read.
var ErrUnreadableSource = errors.Base("source file not readable")

// 📊 FileStatus represents what a copy did to its destination
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File didn't exist in destination
	StatusModified             // File existed but content differed
	StatusUnchanged            // File existed and content matched
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// 🏷️ FileKind says why a file ended up in the destination
type FileKind string

const (
	KindSource  FileKind = "source"  // traced through an inclusion edge (or the entry file)
	KindGraphic FileKind = "graphic" // traced through an image edge
	KindExtra   FileKind = "extra"   // copied by extension, not traced
)

// 📄 FileInfo contains metadata about a copied file
type FileInfo struct {
	Path     string     // Destination path
	Source   string     // Source path
	Kind     FileKind   // Why it was copied
	Status   FileStatus // What the copy did
	Size     int64      // File size in bytes
	Checksum string     // SHA-256 of the content
}

// 🔧 Manager writes into the destination tree and tracks every file it copies.
// Paths are interpreted by the underlying billy filesystem.
type Manager struct {
	fs        billy.Filesystem
	logger    *zerolog.Logger
	formatter FileFormatter

	mu    sync.RWMutex
	index map[string]int
	files []FileInfo
}

// 🏭 New creates a new status manager; a nil logger discards output
func New(fsys billy.Filesystem, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		fs:        fsys,
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		index:     make(map[string]int),
	}
}

// 🔍 calculateChecksum generates a SHA-256 hash of the content
func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 📋 CopyFile copies src to dst, creating parent directories. The destination
// is rewritten only when its content differs, so repeated copies are idempotent.
// A missing source yields an error matching os.ErrNotExist, any other read
// failure one matching ErrUnreadableSource.
func (m *Manager) CopyFile(ctx context.Context, src, dst string, kind FileKind) (FileInfo, error) {
	content, err := util.ReadFile(m.fs, src)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, errors.Errorf("reading source %s: %w", src, os.ErrNotExist)
		}
		return FileInfo{}, errors.Errorf("%w: %s: %s", ErrUnreadableSource, src, err.Error())
	}

	info := FileInfo{
		Path:     dst,
		Source:   src,
		Kind:     kind,
		Status:   StatusNew,
		Size:     int64(len(content)),
		Checksum: calculateChecksum(content),
	}

	current, err := m.ReadFile(ctx, dst)
	switch {
	case err == nil && calculateChecksum(current) == info.Checksum:
		info.Status = StatusUnchanged
	case err == nil:
		info.Status = StatusModified
	case !errors.Is(err, os.ErrNotExist):
		return FileInfo{}, errors.Errorf("reading destination %s: %w", dst, err)
	}

	if info.Status != StatusUnchanged {
		if err := m.CreateDir(ctx, filepath.Dir(dst)); err != nil {
			return FileInfo{}, err
		}
		if err := m.WriteFileAtomic(ctx, dst, content); err != nil {
			return FileInfo{}, errors.Errorf("writing %s: %w", dst, err)
		}
	}

	m.TrackFile(ctx, info)
	return info, nil
}

// WriteFileAtomic writes content next to path and renames it into place
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	tempPath := path + ".tmp"

	if err := util.WriteFile(m.fs, tempPath, content, 0o644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := m.fs.Rename(tempPath, path); err != nil {
		_ = m.fs.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// ReadFile reads path; a missing file yields an error matching os.ErrNotExist
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := util.ReadFile(m.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("reading file: %w", os.ErrNotExist)
		}
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// CreateDir creates path and any missing parents
func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := m.fs.MkdirAll(path, 0o755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// TrackFile records info, replacing any earlier entry for the same destination
func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[info.Path]; ok {
		m.files[i] = info
	} else {
		m.index[info.Path] = len(m.files)
		m.files = append(m.files, info)
	}

	m.logger.Debug().
		Str("path", info.Path).
		Str("source", info.Source).
		Str("kind", string(info.Kind)).
		Str("status", info.Status.String()).
		Msg(m.formatter.FormatCopy(info))
}

// ListFiles returns tracked files in the order they were first copied
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, len(m.files))
	copy(files, m.files)
	return files
}
