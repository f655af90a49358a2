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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

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

// 📄 InputFile is an XML file to mutate plus opaque caller metadata that is
// carried through unchanged onto the matching output descriptor
type InputFile struct {
	Path string `json:"path" yaml:"path" hcl:"path"`
	Tag  string `json:"tag,omitempty" yaml:"tag,omitempty" hcl:"tag,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Inputs         []InputFile `json:"inputs" yaml:"inputs" hcl:"input,block"`
	XPath          string      `json:"xpath" yaml:"xpath" hcl:"xpath"`
	Value          string      `json:"value,omitempty" yaml:"value,omitempty" hcl:"value,optional"`
	Delete         bool        `json:"delete,omitempty" yaml:"delete,omitempty" hcl:"delete,optional"`
	Namespace      string      `json:"namespace,omitempty" yaml:"namespace,omitempty" hcl:"namespace,optional"`
	Prefix         string      `json:"prefix,omitempty" yaml:"prefix,omitempty" hcl:"prefix,optional"`
	Intermediate   string      `json:"intermediate" yaml:"intermediate" hcl:"intermediate"`
	IgnorePatterns []string    `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
	Async          bool        `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	// Check required fields
	if len(cfg.Inputs) == 0 {
		return errors.Errorf("at least one input file is required")
	}
	for i, in := range cfg.Inputs {
		if in.Path == "" {
			return errors.Errorf("inputs[%d].path is required", i)
		}
	}
	if cfg.XPath == "" {
		return errors.Errorf("xpath is required")
	}
	if cfg.Intermediate == "" {
		return errors.Errorf("intermediate is required")
	}
	if cfg.Delete && cfg.Value != "" {
		return errors.Errorf("delete and value are mutually exclusive")
	}
	if cfg.Prefix != "" && cfg.Namespace == "" {
		return errors.Errorf("prefix requires a namespace")
	}

	// Clean up paths
	cfg.Intermediate = filepath.Clean(cfg.Intermediate)
	for i := range cfg.Inputs {
		cfg.Inputs[i].Path = filepath.Clean(cfg.Inputs[i].Path)
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := fmt.Sprintf("set %q", cfg.Value)
	if cfg.Delete {
		mode = "delete"
	}
	return fmt.Sprintf("%d file(s) %s @ %s -> %s", len(cfg.Inputs), mode, cfg.XPath, cfg.Intermediate)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
