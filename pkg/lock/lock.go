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

// Package lock keeps two runs from writing the same destination tree at once.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.Base("destination is locked by another process")

// 🔒 Lock wraps a flock file lock
type Lock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock backed by the file at path.
func New(path string) *Lock {
	return &Lock{
		flock: flock.New(path),
		path:  path,
	}
}

// ForDestination returns the lock guarding absDest. The lock file lives in the
// OS temp dir so the destination tree itself stays clean.
func ForDestination(absDest string) *Lock {
	sum := sha256.Sum256([]byte(filepath.Clean(absDest)))
	name := "texprune-" + hex.EncodeToString(sum[:8]) + ".lock"
	return New(filepath.Join(os.TempDir(), name))
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}

// TryLock acquires the lock without blocking
func (l *Lock) TryLock() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return errors.Errorf("trying lock on %s: %w", l.path, err)
	}
	if !acquired {
		return errors.Errorf("%w: %s", ErrLocked, l.path)
	}
	return nil
}

// Unlock releases the lock
func (l *Lock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return errors.Errorf("releasing lock on %s: %w", l.path, err)
	}
	return nil
}
