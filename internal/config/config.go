// Copyright 2020 CUE Authors
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

// Package config loads CompileOptions the way aescanero-dago-node-router
// loads its own routing configuration (SPEC_FULL.md §10.3): a struct with
// `env` tags overridable from the process environment via caarlos0/env, and
// a YAML policy document (gopkg.in/yaml.v3) naming many CEL expressions at
// once rather than one ad hoc source string, mirroring how
// stacklok-toolhive-core keeps its authorization expressions in one
// registry file.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Options mirrors the fields of cel.CompileOptions but lives here, free of
// any internal/value or internal/eval import. The cel package does not
// import config and has no conversion to or from this type.
type Options struct {
	Container     string `env:"CEL_CONTAINER" yaml:"container"`
	DisableMacros bool   `env:"CEL_DISABLE_MACROS" yaml:"disableMacros"`
}

// FromEnv returns Options populated from CEL_* environment variables,
// starting from base so callers can layer env overrides onto
// programmatically-built options.
func FromEnv(base Options) (Options, error) {
	opts := base
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return opts, nil
}

// Policy is one named CEL expression within a Document: its source text,
// compile options, and an optional human-readable description.
type Policy struct {
	Name        string  `yaml:"name"`
	Expression  string  `yaml:"expression"`
	Description string  `yaml:"description,omitempty"`
	Options     Options `yaml:",inline"`
}

// Document is a YAML policy file listing many named CEL expressions
// (SPEC_FULL.md §10.3, §12), the shape stacklok-toolhive-core's
// authorization-predicate registry uses.
type Document struct {
	Policies []Policy `yaml:"policies"`
}

// LoadDocument parses a policy document from YAML text.
func LoadDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing policy document: %w", err)
	}
	seen := make(map[string]bool, len(doc.Policies))
	for _, p := range doc.Policies {
		if p.Name == "" {
			return nil, fmt.Errorf("config: policy document has an unnamed entry")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("config: duplicate policy name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return &doc, nil
}

// LoadDocumentFile reads and parses a policy document from path.
func LoadDocumentFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading policy document: %w", err)
	}
	return LoadDocument(data)
}

// Lookup returns the named policy, if present.
func (d *Document) Lookup(name string) (Policy, bool) {
	for _, p := range d.Policies {
		if p.Name == name {
			return p, true
		}
	}
	return Policy{}, false
}
