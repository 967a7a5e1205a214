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

// Package ir is the data model of the compiler: the machine type
// lattice, the stream graph, and the expression and instruction
// algebras stream bodies are written in. A graph is built once per
// compilation from declarations and is immutable afterwards; the
// scheduler, the type inferencer, and the backend only read it.
package ir

import (
	"github.com/YPares/frp-arduino/base/ordered"
	"github.com/YPares/frp-arduino/build/comperr"
)

type (
	// InputDecl declares one input edge of a stream: the producer's
	// name and the argument index it feeds.
	InputDecl struct {
		Index  int
		Stream string
	}

	// StreamDecl declares one stream before name resolution.
	StreamDecl struct {
		Name   string
		Inputs []InputDecl
		Body   Body
	}

	// Graph is the stream graph: an arena of nodes in declaration
	// order, with all names resolved to arena indices.
	Graph struct {
		streams []*Stream
		byName  *ordered.Map[string, int]
	}
)

// NewGraph resolves a set of declarations into a graph. It validates
// that every referenced name is declared, that no stream declares
// the same argument index twice, and that argument indices are dense
// starting at zero. The fan-out side of every stream is derived from
// the input declarations of its consumers. All validation errors are
// collected before giving up.
func NewGraph(decls []StreamDecl) (*Graph, error) {
	g := &Graph{byName: ordered.NewMap[string, int]()}
	errs := &comperr.Appender{}
	declared := make([]*Stream, len(decls))
	for di, decl := range decls {
		if g.byName.Has(decl.Name) {
			errs.Appendf(comperr.DuplicateInput, decl.Name, "stream declared more than once")
			continue
		}
		s := &Stream{id: len(g.streams), name: decl.Name, body: decl.Body}
		g.byName.Store(decl.Name, s.id)
		g.streams = append(g.streams, s)
		declared[di] = s
	}
	for di, decl := range decls {
		s := declared[di]
		if s == nil {
			continue
		}
		s.inputs = make([]int, len(decl.Inputs))
		for i := range s.inputs {
			s.inputs[i] = -1
		}
		for _, in := range decl.Inputs {
			if in.Index < 0 || in.Index >= len(decl.Inputs) {
				errs.Appendf(comperr.DuplicateInput, decl.Name, "argument index %d outside the declared arity %d", in.Index, len(decl.Inputs))
				continue
			}
			if s.inputs[in.Index] >= 0 {
				errs.Appendf(comperr.DuplicateInput, decl.Name, "argument index %d declared twice", in.Index)
				continue
			}
			producer, ok := g.byName.Load(in.Stream)
			if !ok {
				errs.Appendf(comperr.UnknownStream, decl.Name, "input %s is not declared", in.Stream)
				continue
			}
			s.inputs[in.Index] = producer
		}
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}
	// Derive fan-out edges in declaration order of the consumers.
	for _, s := range g.streams {
		for argIndex, producer := range s.inputs {
			p := g.streams[producer]
			p.outputs = append(p.outputs, Output{Consumer: s.id, ArgIndex: argIndex})
		}
	}
	return g, nil
}

// Len returns the number of streams in the graph.
func (g *Graph) Len() int { return len(g.streams) }

// At returns the stream at the given arena index.
func (g *Graph) At(id int) *Stream { return g.streams[id] }

// Lookup returns a stream given its name.
func (g *Graph) Lookup(name string) (*Stream, bool) {
	id, ok := g.byName.Load(name)
	if !ok {
		return nil, false
	}
	return g.streams[id], true
}

// Roots returns the zero-input streams in declaration order.
func (g *Graph) Roots() []*Stream {
	var roots []*Stream
	for _, s := range g.streams {
		if s.IsRoot() {
			roots = append(roots, s)
		}
	}
	return roots
}

// ReachableFrom marks every stream transitively referenced from the
// given roots, following both input and output edges, including the
// roots themselves.
func (g *Graph) ReachableFrom(roots []*Stream) []bool {
	reachable := make([]bool, len(g.streams))
	var visit func(id int)
	visit = func(id int) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		s := g.streams[id]
		for _, producer := range s.inputs {
			visit(producer)
		}
		for _, out := range s.outputs {
			visit(out.Consumer)
		}
	}
	for _, root := range roots {
		visit(root.ID())
	}
	return reachable
}
