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

package cgen

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/YPares/frp-arduino/build/ir"
	"github.com/YPares/frp-arduino/build/lower"
)

// signature returns the C signature of a stream function. A stream
// with inputs is invoked once per input edge firing: it takes the
// argument index of the edge and an untyped pointer to the payload.
func signature(s *ir.Stream) string {
	if s.IsRoot() {
		return fmt.Sprintf("static void %s(void)", s.Name())
	}
	return fmt.Sprintf("static void %s(uint8_t arg_index, void *arg)", s.Name())
}

// function emits one stream as one C function: the per-input latch
// slots, the dispatch switch storing the incoming payload, the
// lowered body, and one call per fan-out edge.
func (cp *compiler) function(s *ir.Stream) error {
	inTypes := cp.types.InputTypes(s)
	sig := signature(s)
	cp.w.headerf("%s;", sig)
	cp.w.bodyf("%s {", sig)
	for i, t := range inTypes {
		cp.w.bodyf("    static %s %s;", t.CType(), lower.InputName(i))
	}
	if len(inTypes) > 0 {
		cp.w.bodyf("    switch (arg_index) {")
		for i, t := range inTypes {
			cp.w.bodyf("    case %d:", i)
			cp.w.bodyf("        %s = *((%s*)arg);", lower.InputName(i), t.CType())
			cp.w.bodyf("        break;")
		}
		cp.w.bodyf("    }")
	}
	ctx := lower.NewContext(s, inTypes)
	vals, err := cp.lowerBody(s, ctx)
	if err != nil {
		return err
	}
	for _, v := range vals {
		cp.deliver(ctx, s, v)
	}
	cp.w.bodyLines(ctx.Block().Lines())
	cp.w.bodyf("}")
	cp.w.bodyf("")
	cp.folds = append(cp.folds, ctx.Folds()...)
	return nil
}

// lowerBody lowers the stream's body into ctx. For a driver, the
// init program is lowered into a separate block spliced into main.
func (cp *compiler) lowerBody(s *ir.Stream, ctx *lower.Context) ([]lower.Value, error) {
	switch b := s.Body().(type) {
	case ir.Driver:
		initCtx := lower.NewInitContext(s)
		if _, err := initCtx.Instr(b.Init); err != nil {
			return nil, err
		}
		if lines := initCtx.Block().Lines(); len(lines) > 0 {
			cp.inits = append(cp.inits, lines)
		}
		return ctx.Instr(b.Update)
	case ir.Transform:
		return ctx.Expr(b.Expr)
	}
	return nil, errors.Errorf("stream %s: unknown body %T", s.Name(), s.Body())
}

// deliver forwards one result value to every fan-out edge according
// to its emission policy.
func (cp *compiler) deliver(ctx *lower.Context, s *ir.Stream, v lower.Value) {
	outputs := s.Outputs()
	if len(outputs) == 0 || v.Type.Kind() == ir.VoidKind {
		return
	}
	b := ctx.Block()
	switch v.Mode {
	case lower.Plain:
		cp.calls(b, outputs, v.Name)
	case lower.Guarded:
		b.Linef("if (%s) {", v.Guard)
		b.Indent()
		cp.calls(b, outputs, v.Name)
		b.Dedent()
		b.Linef("}")
	case lower.Unrolled:
		i := ctx.Fresh("i")
		elem := ctx.Fresh("elem")
		b.Linef("for (uint8_t %s = 0; %s < %s.size; %s = %s + 1) {", i, i, v.Name, i, i)
		b.Indent()
		b.Linef("%s %s = ((%s*)%s.values)[%s];", v.Type.CType(), elem, v.Type.CType(), v.Name, i)
		cp.calls(b, outputs, elem)
		b.Dedent()
		b.Linef("}")
	}
}

// calls emits one push call per fan-out edge, each at the consumer's
// recorded argument index.
func (cp *compiler) calls(b *lower.Block, outputs []ir.Output, value string) {
	for _, out := range outputs {
		consumer := cp.g.At(out.Consumer)
		b.Linef("%s(%d, (void*)&%s);", consumer.Name(), out.ArgIndex, value)
	}
}
