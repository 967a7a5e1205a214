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

// Package infer assigns a machine type to every scheduled stream.
//
// Streams are visited in scheduled order, so the types of a stream's
// inputs are always known before its own body is typed. A body is
// typed by lowering it into a scratch context and unifying the types
// of the result values it produces; lowering is the single source of
// truth for typing rules, so inference and emission can never
// disagree.
package infer

import (
	"github.com/YPares/frp-arduino/base/ordered"
	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
	"github.com/YPares/frp-arduino/build/lower"
	"github.com/pkg/errors"
)

// Result holds the inferred types: one output type per stream and
// the latch types of every argument index.
type Result struct {
	types  *ordered.Map[string, ir.Type]
	inputs [][]ir.Type
}

// TypeOf returns the output type of a named stream.
func (r *Result) TypeOf(name string) (ir.Type, bool) {
	return r.types.Load(name)
}

// InputTypes returns the latch types of a stream, indexed by
// argument index.
func (r *Result) InputTypes(s *ir.Stream) []ir.Type {
	return r.inputs[s.ID()]
}

// Infer types every stream of the scheduled order.
func Infer(g *ir.Graph, order []*ir.Stream) (*Result, error) {
	r := &Result{
		types:  ordered.NewMap[string, ir.Type](),
		inputs: make([][]ir.Type, g.Len()),
	}
	for _, s := range order {
		r.inputs[s.ID()] = make([]ir.Type, s.NumInputs())
	}
	for _, s := range order {
		typ, err := r.streamType(s)
		if err != nil {
			return nil, err
		}
		if typ.Kind() == ir.VoidKind && len(s.Outputs()) > 0 {
			return nil, comperr.Errorf(comperr.TypeMismatch, s.Name(), "a void stream cannot feed consumers")
		}
		r.types.Store(s.Name(), typ)
		for _, out := range s.Outputs() {
			r.inputs[out.Consumer][out.ArgIndex] = typ
		}
	}
	return r, nil
}

// streamType lowers the body into a scratch context and unifies the
// result value types.
func (r *Result) streamType(s *ir.Stream) (ir.Type, error) {
	ctx := lower.NewContext(s, r.inputs[s.ID()])
	switch b := s.Body().(type) {
	case ir.Driver:
		// The init program yields no stream value but must still be
		// well formed.
		initCtx := lower.NewInitContext(s)
		if _, err := initCtx.Instr(b.Init); err != nil {
			return ir.Type{}, err
		}
		vals, err := ctx.Instr(b.Update)
		if err != nil {
			return ir.Type{}, err
		}
		return unifyValues(s, vals)
	case ir.Transform:
		vals, err := ctx.Expr(b.Expr)
		if err != nil {
			return ir.Type{}, err
		}
		return unifyValues(s, vals)
	}
	return ir.Type{}, errors.Errorf("stream %s: unknown body %T", s.Name(), s.Body())
}

func unifyValues(s *ir.Stream, vals []lower.Value) (ir.Type, error) {
	if len(vals) == 0 {
		return ir.VoidType(), nil
	}
	types := make([]ir.Type, len(vals))
	for i, v := range vals {
		types[i] = v.Type
	}
	typ, err := ir.UnifyAll(types)
	if err != nil {
		return ir.Type{}, comperr.Errorf(comperr.TypeMismatch, s.Name(), "result values do not unify: %s", err)
	}
	return typ, nil
}
