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

package collect

import (
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrUnresolvableDestination means a file sits outside the tree the destination mirrors.
var ErrUnresolvableDestination = errors.Base("destination not expressible relative to source tree")

// 🧭 Resolve returns target as seen from the directory of referrer.
// Absolute targets are returned cleaned and otherwise unchanged.
func Resolve(referrer, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(filepath.Dir(referrer), target)
}

// 🪞 MirrorPath maps file to its location under destRoot, preserving its path
// relative to the parent of destRoot.
func MirrorPath(destRoot, file string) (string, error) {
	base := filepath.Dir(filepath.Clean(destRoot))
	rel, err := filepath.Rel(base, filepath.Clean(file))
	if err != nil {
		return "", errors.Errorf("%w: %s from %s: %s", ErrUnresolvableDestination, file, base, err.Error())
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%w: %s is outside %s", ErrUnresolvableDestination, file, base)
	}
	return filepath.Join(destRoot, rel), nil
}
