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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/texprune/pkg/compile"
	"github.com/walteh/texprune/pkg/extras"
	"github.com/walteh/texprune/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is looked up in the working directory when --config is not given.
const DefaultFile = ".texprune.yaml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🛠️ Compile configures the optional compiler run
type Compile struct {
	Enabled bool     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Main        string   `json:"main" yaml:"main"`
	Destination string   `json:"destination,omitempty" yaml:"destination,omitempty"`
	Extensions  []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Compile     *Compile `json:"compile,omitempty" yaml:"compile,omitempty"`
	LogFile     string   `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// 🎯 Load reads and parses path. A relative main file is taken relative to the
// config file's directory. Load does not validate; call Validate after
// merging command line overrides.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if cfg.Main != "" && !filepath.IsAbs(cfg.Main) {
		cfg.Main = filepath.Join(filepath.Dir(path), cfg.Main)
	}

	return cfg, nil
}

// 🔍 Validate checks required fields and fills defaults
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Main) == "" {
		return errors.Errorf("main is required")
	}
	cfg.Main = filepath.Clean(cfg.Main)

	if cfg.Destination == "" {
		cfg.Destination = operation.DefaultDestination
	}
	cfg.Destination = filepath.Clean(cfg.Destination)
	if cfg.Destination == "." {
		return errors.Errorf("destination must not be the entry file's own directory")
	}

	if cfg.Extensions == nil {
		cfg.Extensions = append([]string(nil), extras.DefaultExtensions...)
	}

	if cfg.Compile == nil {
		cfg.Compile = &Compile{}
	}
	if cfg.Compile.Command == "" {
		cfg.Compile.Command = compile.DefaultCommand
		if cfg.Compile.Args == nil {
			cfg.Compile.Args = append([]string(nil), compile.DefaultArgs...)
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s [%s]", cfg.Main, cfg.Destination, strings.Join(cfg.Extensions, ","))
}
