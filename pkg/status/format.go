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
	"fmt"
)

// 🎨 FileFormatter renders status messages for copied files
type FileFormatter interface {
	// FormatCopy formats the outcome of one copy
	FormatCopy(info FileInfo) string

	// FormatSummary formats the totals of a run
	FormatSummary(files []FileInfo) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatCopy formats a copy status message with emojis
func (f *DefaultFileFormatter) FormatCopy(info FileInfo) string {
	switch info.Status {
	case StatusNew:
		return fmt.Sprintf("✨ Created %s", info.Path)
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s", info.Path)
	case StatusUnchanged:
		return fmt.Sprintf("👍 Unchanged %s", info.Path)
	default:
		return fmt.Sprintf("❔ %s", info.Path)
	}
}

// FormatSummary counts files per status
func (f *DefaultFileFormatter) FormatSummary(files []FileInfo) string {
	var created, modified, unchanged int
	for _, info := range files {
		switch info.Status {
		case StatusNew:
			created++
		case StatusModified:
			modified++
		case StatusUnchanged:
			unchanged++
		}
	}
	return fmt.Sprintf("%d files: %d created, %d modified, %d unchanged", len(files), created, modified, unchanged)
}
