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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "texprune.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	type hclConfig struct {
		Main        string   `hcl:"main,optional"`
		Destination string   `hcl:"destination,optional"`
		Extensions  []string `hcl:"extensions,optional"`
		LogFile     string   `hcl:"log_file,optional"`
		Compile     *struct {
			Enabled bool     `hcl:"enabled,optional"`
			Command string   `hcl:"command,optional"`
			Args    []string `hcl:"args,optional"`
		} `hcl:"compile,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Main:        hclCfg.Main,
		Destination: hclCfg.Destination,
		Extensions:  hclCfg.Extensions,
		LogFile:     hclCfg.LogFile,
	}
	if hclCfg.Compile != nil {
		cfg.Compile = &Compile{
			Enabled: hclCfg.Compile.Enabled,
			Command: hclCfg.Compile.Command,
			Args:    hclCfg.Compile.Args,
		}
	}

	return cfg, nil
}
