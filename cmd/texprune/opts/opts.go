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

package opts

import (
	"github.com/walteh/texprune/pkg/compile"
	"github.com/walteh/texprune/pkg/config"
	"github.com/walteh/texprune/pkg/log"
)

// RootOpts is shared by every subcommand. It is filled in by the root
// command before a subcommand runs.
type RootOpts struct {
	// Config is the loaded project config, empty when no file was found
	Config *config.Config
	// ConfigFile is the path Config was read from, empty when none was
	ConfigFile string
	// Logger writes console output and structured events
	Logger *log.Logger
	// Runner executes the compiler
	Runner compile.Runner
}
