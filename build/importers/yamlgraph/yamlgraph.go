// Copyright 2025 Google LLC
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

// Package yamlgraph loads a stream graph from its declarative YAML
// form: one record per stream with its name, its inputs in argument
// index order, and either a board driver or an expression body.
package yamlgraph

import (
	"os"
	"regexp"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/YPares/frp-arduino/build/ir"
)

type (
	fileYAML struct {
		Streams []streamYAML `yaml:"streams"`
	}

	streamYAML struct {
		Name   string   `yaml:"name"`
		Inputs []string `yaml:"inputs"`
		Driver any      `yaml:"driver"`
		Expr   any      `yaml:"expr"`
	}
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads a graph description from a file.
func Load(path string) (*ir.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("cannot read %s: %v", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, errors.Errorf("%s: %v", path, err)
	}
	return g, nil
}

// Parse builds a validated graph from a YAML graph description.
func Parse(data []byte) (*ir.Graph, error) {
	var file fileYAML
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, errors.Errorf("cannot parse graph description: %v", err)
	}
	if len(file.Streams) == 0 {
		return nil, errors.Errorf("graph description declares no stream")
	}
	decls := make([]ir.StreamDecl, 0, len(file.Streams))
	for _, s := range file.Streams {
		decl, err := streamDecl(s)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return ir.NewGraph(decls)
}

func streamDecl(s streamYAML) (ir.StreamDecl, error) {
	if !identifier.MatchString(s.Name) {
		return ir.StreamDecl{}, errors.Errorf("stream name %q is not a valid C identifier", s.Name)
	}
	body, err := streamBody(s)
	if err != nil {
		return ir.StreamDecl{}, errors.Errorf("stream %s: %v", s.Name, err)
	}
	inputs := make([]ir.InputDecl, len(s.Inputs))
	for i, in := range s.Inputs {
		inputs[i] = ir.InputDecl{Index: i, Stream: in}
	}
	return ir.StreamDecl{Name: s.Name, Inputs: inputs, Body: body}, nil
}

func streamBody(s streamYAML) (ir.Body, error) {
	switch {
	case s.Driver != nil && s.Expr != nil:
		return nil, errors.Errorf("declares both a driver and an expression")
	case s.Driver != nil:
		return parseDriver(s.Driver)
	case s.Expr != nil:
		e, err := parseExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return ir.Transform{Expr: e}, nil
	}
	return nil, errors.Errorf("declares neither a driver nor an expression")
}
