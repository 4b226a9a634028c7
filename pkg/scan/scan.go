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

package scan

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/texprune/pkg/diag"
	"gitlab.com/tozd/go/errors"
)

// SourceExt is appended to inclusion targets that carry no .tex extension.
const SourceExt = ".tex"

const lineComment = '%'

var (
	inputRe        = regexp.MustCompile(`input\s*\{([^{}]*)\}`)
	graphicRe      = regexp.MustCompile(`includegraphics\s*(?:\[[^\]]*\])?\s*\{([^{}]*)\}`)
	commentBeginRe = regexp.MustCompile(`begin\s*\{comment\}`)
	commentEndRe   = regexp.MustCompile(`end\s*\{comment\}`)
)

// 🔗 RefKind tells inclusion edges from image edges
type RefKind int

const (
	RefInput   RefKind = iota // another source file, scanned recursively
	RefGraphic                // binary asset, copied but never scanned
)

func (k RefKind) String() string {
	if k == RefGraphic {
		return "graphic"
	}
	return "input"
}

// 📎 Reference is one directive occurrence in live text.
// Target is relative to the directory of the file it was found in.
type Reference struct {
	Kind   RefKind
	Target string
	Line   int
}

// 📄 Result holds every reference of one file in file order
type Result struct {
	Path string
	Refs []Reference
}

// Inputs returns inclusion targets in file order, duplicates kept
func (r *Result) Inputs() []string {
	return r.targets(RefInput)
}

// Graphics returns image targets in file order, duplicates kept
func (r *Result) Graphics() []string {
	return r.targets(RefGraphic)
}

func (r *Result) targets(kind RefKind) []string {
	out := []string{}
	for _, ref := range r.Refs {
		if ref.Kind == kind {
			out = append(out, ref.Target)
		}
	}
	return out
}

// 🔍 Scan reads path from fsys and extracts its references.
// A missing file yields an error matching os.ErrNotExist.
func Scan(ctx context.Context, fsys billy.Filesystem, path string, sink diag.Sink) (*Result, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("opening %s: %w", path, os.ErrNotExist)
		}
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := ScanReader(f, path, sink)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", path).
		Int("inputs", len(res.Inputs())).
		Int("graphics", len(res.Graphics())).
		Msg("scanned source file")

	return res, nil
}

// 🔍 ScanReader is Scan over an already opened reader; path only labels diagnostics.
func ScanReader(r io.Reader, path string, sink diag.Sink) (*Result, error) {
	if sink == nil {
		sink = diag.Discard
	}

	s := &scanner{path: path, sink: sink, res: &Result{Path: path, Refs: []Reference{}}}

	// no line length limit
	br := bufio.NewReader(r)
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			s.line++
			s.processLine(strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", path, err)
		}
	}

	if s.inComment {
		sink.Report(diag.Diagnostic{
			Kind:    diag.KindUnmatchedBegin,
			Path:    path,
			Line:    s.openedAt,
			Message: `missing \end{comment} for \begin{comment}`,
		})
	}

	return s.res, nil
}

// scanner is the per-file comment state machine
type scanner struct {
	path      string
	sink      diag.Sink
	res       *Result
	line      int
	inComment bool
	openedAt  int
}

func (s *scanner) processLine(text string) {
	for i := 0; i < len(text); i++ {
		if text[i] == lineComment {
			text = text[:i]
			break
		}
	}

	for {
		if s.inComment {
			loc := commentEndRe.FindStringIndex(text)
			if loc == nil {
				return
			}
			text = text[loc[1]:]
			s.inComment = false
			continue
		}

		begin := commentBeginRe.FindStringIndex(text)
		end := commentEndRe.FindStringIndex(text)

		switch {
		case end != nil && (begin == nil || end[0] < begin[0]):
			s.sink.Report(diag.Diagnostic{
				Kind:    diag.KindUnmatchedEnd,
				Path:    s.path,
				Line:    s.line,
				Message: `missing \begin{comment} for \end{comment}`,
			})
			text = text[end[1]:]
		case begin != nil:
			s.extract(text[:begin[0]])
			text = text[begin[1]:]
			s.inComment = true
			s.openedAt = s.line
		default:
			s.extract(text)
			return
		}
	}
}

// extract collects directives from live text, left to right
func (s *scanner) extract(text string) {
	if text == "" {
		return
	}

	type match struct {
		at  int
		ref Reference
	}
	var found []match
	for _, m := range inputRe.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, match{m[0], Reference{Kind: RefInput, Target: withSourceExt(text[m[2]:m[3]]), Line: s.line}})
	}
	for _, m := range graphicRe.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, match{m[0], Reference{Kind: RefGraphic, Target: text[m[2]:m[3]], Line: s.line}})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })
	for _, m := range found {
		s.res.Refs = append(s.res.Refs, m.ref)
	}
}

func withSourceExt(name string) string {
	if filepath.Ext(name) == SourceExt {
		return name
	}
	return name + SourceExt
}
