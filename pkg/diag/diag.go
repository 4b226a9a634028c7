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

// Package diag collects non-fatal anomalies found while tracing a document.
package diag

import (
	"fmt"
	"sync"
)

// 🏷️ Kind classifies a diagnostic
type Kind int

const (
	KindUnknown        Kind = iota
	KindMissingFile         // referenced file absent on disk
	KindUnmatchedBegin      // \begin{comment} never closed
	KindUnmatchedEnd        // \end{comment} without an open block
	KindIncludeCycle        // inclusion edge back onto the active path
	KindUnreadableFile      // referenced path exists but cannot be read as a file
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindMissingFile:
		return "missing-file"
	case KindUnmatchedBegin:
		return "unmatched-begin"
	case KindUnmatchedEnd:
		return "unmatched-end"
	case KindIncludeCycle:
		return "include-cycle"
	case KindUnreadableFile:
		return "unreadable-file"
	default:
		return "unknown"
	}
}

// ⚠️ Diagnostic is a single warning. Line is 1-based, 0 when not tied to a line.
type Diagnostic struct {
	Kind    Kind
	Path    string
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// 📥 Sink receives diagnostics at the point of detection
type Sink interface {
	Report(d Diagnostic)
}

// 📋 List is a Sink that keeps diagnostics in detection order.
// The zero value is ready to use and safe for concurrent use.
type List struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report implements Sink
func (l *List) Report(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, d)
}

// All returns a copy of the collected diagnostics
func (l *List) All() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of collected diagnostics
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Discard drops every diagnostic
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}
