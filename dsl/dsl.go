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

// Package dsl is the surface users write stream programs in: declare
// streams, wire them positionally, and compile the whole program to
// one C source unit.
package dsl

import (
	"io"

	"github.com/YPares/frp-arduino/base/uname"
	"github.com/YPares/frp-arduino/build/ir"
	"github.com/YPares/frp-arduino/cgen"
)

// Program collects stream declarations until compilation.
type Program struct {
	decls []ir.StreamDecl
	names *uname.Unique
}

// Stream is a handle on a declared stream, used to wire consumers.
type Stream struct {
	name string
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{names: uname.New()}
}

// Define declares a named stream with the given body. The position
// of each input is its argument index.
func (p *Program) Define(name string, body ir.Body, inputs ...*Stream) *Stream {
	ins := make([]ir.InputDecl, len(inputs))
	for i, in := range inputs {
		ins[i] = ir.InputDecl{Index: i, Stream: in.name}
	}
	p.decls = append(p.decls, ir.StreamDecl{Name: name, Inputs: ins, Body: body})
	return &Stream{name: name}
}

// Transform declares a pure stream computing an expression over its
// inputs. Input(0) of the expression is the first wired stream.
func (p *Program) Transform(name string, e ir.Expr, inputs ...*Stream) *Stream {
	return p.Define(name, ir.Transform{Expr: e}, inputs...)
}

// Map declares an unnamed single-input transform, named after its
// producer.
func (p *Program) Map(e ir.Expr, input *Stream) *Stream {
	return p.Transform(p.names.Name(input.name+"_map"), e, input)
}

// Graph assembles the declared streams into a validated graph.
func (p *Program) Graph() (*ir.Graph, error) {
	return ir.NewGraph(p.decls)
}

// Compile assembles, schedules, types, and lowers the program, then
// writes the C unit to w. Nothing is written unless the whole
// compilation succeeded.
func (p *Program) Compile(w io.Writer) error {
	g, err := p.Graph()
	if err != nil {
		return err
	}
	src, err := cgen.Compile(g)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, src)
	return err
}
