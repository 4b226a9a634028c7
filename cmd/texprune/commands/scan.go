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

package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/texprune/cmd/texprune/opts"
	"github.com/walteh/texprune/pkg/diag"
	"github.com/walteh/texprune/pkg/log"
	"github.com/walteh/texprune/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// NewScanCmd creates the scan command
func NewScanCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan FILE...",
		Short: "Show the live references of source files",
		Long: `Scan lists the \input and \includegraphics references of each file
that are not commented out, without following or copying anything.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return errors.Errorf("getting absolute path of %s: %w", arg, err)
				}

				var sink diag.List
				res, err := scan.Scan(ctx, osfs.New(filepath.Dir(abs)), filepath.Base(abs), &sink)
				if err != nil {
					return errors.Errorf("scanning %s: %w", arg, err)
				}

				console.Header(arg)
				if len(res.Refs) == 0 {
					console.Info("no references")
				} else {
					out, err := renderRefs(res.Refs)
					if err != nil {
						return errors.Errorf("rendering references of %s: %w", arg, err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), out)
				}

				for _, d := range sink.All() {
					d.Path = arg
					console.LogDiagnostic(ctx, d)
				}
			}

			return nil
		},
	}

	return cmd
}

// renderRefs lays references out as a table in file order
func renderRefs(refs []scan.Reference) (string, error) {
	data := pterm.TableData{{"line", "kind", "target"}}
	for _, ref := range refs {
		data = append(data, []string{strconv.Itoa(ref.Line), ref.Kind.String(), ref.Target})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
