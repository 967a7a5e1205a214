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

package lower

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
)

// Expr lowers an expression, appending its statements to the block
// and returning its result values. Operands are lowered before the
// operator, left to right.
func (c *Context) Expr(e ir.Expr) ([]Value, error) {
	switch e := e.(type) {
	case ir.Not:
		v, err := c.operand("Not", e.X, ir.BitType())
		if err != nil {
			return nil, err
		}
		tmp := c.names.Name("tmp")
		c.block.Linef("bool %s = !%s;", tmp, v.Name)
		return plain(tmp, ir.BitType()), nil
	case ir.Even:
		v, err := c.operand("Even", e.X, ir.WordType())
		if err != nil {
			return nil, err
		}
		tmp := c.names.Name("tmp")
		c.block.Linef("bool %s = (%s %% 2) == 0;", tmp, v.Name)
		return plain(tmp, ir.BitType()), nil
	case ir.Greater:
		return c.binary("Greater", ">", e.X, e.Y, ir.BitType())
	case ir.Add:
		return c.binary("Add", "+", e.X, e.Y, ir.WordType())
	case ir.Sub:
		return c.binary("Sub", "-", e.X, e.Y, ir.WordType())
	case ir.Input:
		v, err := c.input(e.Index)
		if err != nil {
			return nil, err
		}
		return []Value{v}, nil
	case ir.ByteConstant:
		tmp := c.names.Name("tmp")
		c.block.Linef("uint8_t %s = %d;", tmp, e.Value)
		return plain(tmp, ir.ByteType()), nil
	case ir.WordConstant:
		tmp := c.names.Name("tmp")
		c.block.Linef("uint16_t %s = %d;", tmp, e.Value)
		return plain(tmp, ir.WordType()), nil
	case ir.BitConstant:
		tmp := c.names.Name("tmp")
		c.block.Linef("bool %s = %s;", tmp, cbool(e.Value))
		return plain(tmp, ir.BitType()), nil
	case ir.BoolToBit:
		return c.Expr(e.X)
	case ir.IsHigh:
		return c.Expr(e.X)
	case ir.Many:
		var vals []Value
		for _, sub := range e.Exprs {
			sv, err := c.Expr(sub)
			if err != nil {
				return nil, err
			}
			vals = append(vals, sv...)
		}
		return vals, nil
	case ir.ListConstant:
		return c.listConstant(e)
	case ir.NumberToByteArray:
		return c.numberToByteArray(e)
	case ir.If:
		return c.ifExpr(e)
	case ir.Fold:
		return c.fold(e)
	case ir.Filter:
		return c.filter(e)
	case ir.Flatten:
		return c.flatten(e)
	}
	return nil, errors.Errorf("stream %s: expression %s has no lowering case", c.stream.Name(), ir.ExprConstructor(e))
}

func plain(name string, typ ir.Type) []Value {
	return []Value{{Name: name, Type: typ}}
}

func cbool(p ir.Polarity) string {
	if p == ir.High {
		return "true"
	}
	return "false"
}

// single lowers an operand that must produce exactly one plain value.
func (c *Context) single(ctor string, e ir.Expr) (Value, error) {
	vals, err := c.Expr(e)
	if err != nil {
		return Value{}, err
	}
	if len(vals) != 1 {
		return Value{}, c.errorf(comperr.TypeMismatch, "%s expects a single value but its operand produces %d", ctor, len(vals))
	}
	v := vals[0]
	if v.Mode != Plain {
		return Value{}, c.errorf(comperr.TypeMismatch, "%s cannot consume a %s value", ctor, v.Mode)
	}
	return v, nil
}

// operand lowers a single-valued operand of a required type.
func (c *Context) operand(ctor string, e ir.Expr, want ir.Type) (Value, error) {
	v, err := c.single(ctor, e)
	if err != nil {
		return Value{}, err
	}
	if !v.Type.Equal(want) {
		return Value{}, c.errorf(comperr.TypeMismatch, "%s expects a %s operand but got %s", ctor, want, v.Type)
	}
	return v, nil
}

func (c *Context) binary(ctor, op string, x, y ir.Expr, result ir.Type) ([]Value, error) {
	xv, err := c.operand(ctor, x, ir.WordType())
	if err != nil {
		return nil, err
	}
	yv, err := c.operand(ctor, y, ir.WordType())
	if err != nil {
		return nil, err
	}
	tmp := c.names.Name("tmp")
	c.block.Linef("%s %s = %s %s %s;", result.CType(), tmp, xv.Name, op, yv.Name)
	return plain(tmp, result), nil
}

func (c *Context) listConstant(e ir.ListConstant) ([]Value, error) {
	if len(e.Elems) == 0 {
		return nil, c.errorf(comperr.TypeMismatch, "ListConstant needs at least one element to fix its type")
	}
	var elems []Value
	var types []ir.Type
	for _, elem := range e.Elems {
		v, err := c.single("ListConstant", elem)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		types = append(types, v.Type)
	}
	elemType, err := ir.UnifyAll(types)
	if err != nil {
		return nil, c.errorf(comperr.TypeMismatch, "ListConstant elements: %s", err)
	}
	arr := c.names.Name("list")
	c.block.Linef("static %s %s[%d];", elemType.CType(), arr, len(elems))
	for i, v := range elems {
		c.block.Linef("%s[%d] = %s;", arr, i, v.Name)
	}
	tmp := c.names.Name("tmp")
	c.block.Linef("struct list %s;", tmp)
	c.block.Linef("%s.size = %d;", tmp, len(elems))
	c.block.Linef("%s.values = (void*)%s;", tmp, arr)
	return plain(tmp, ir.ListOf(elemType)), nil
}

// numberToByteArray formats a word as its decimal digits, most
// significant first, into a per-site static buffer.
func (c *Context) numberToByteArray(e ir.NumberToByteArray) ([]Value, error) {
	v, err := c.operand("NumberToByteArray", e.X, ir.WordType())
	if err != nil {
		return nil, err
	}
	buf := c.names.Name("numbuf")
	val := c.names.Name("numval")
	length := c.names.Name("numlen")
	i := c.names.Name("i")
	swap := c.names.Name("swap")
	c.block.Linef("static uint8_t %s[5];", buf)
	c.block.Linef("uint16_t %s = %s;", val, v.Name)
	c.block.Linef("uint8_t %s = 0;", length)
	c.block.Linef("do {")
	c.block.Indent()
	c.block.Linef("%s[%s] = '0' + (%s %% 10);", buf, length, val)
	c.block.Linef("%s = %s + 1;", length, length)
	c.block.Linef("%s = %s / 10;", val, val)
	c.block.Dedent()
	c.block.Linef("} while (%s > 0);", val)
	c.block.Linef("for (uint8_t %s = 0; %s < %s / 2; %s = %s + 1) {", i, i, length, i, i)
	c.block.Indent()
	c.block.Linef("uint8_t %s = %s[%s];", swap, buf, i)
	c.block.Linef("%s[%s] = %s[%s - 1 - %s];", buf, i, buf, length, i)
	c.block.Linef("%s[%s - 1 - %s] = %s;", buf, length, i, swap)
	c.block.Dedent()
	c.block.Linef("}")
	tmp := c.names.Name("tmp")
	c.block.Linef("struct list %s;", tmp)
	c.block.Linef("%s.size = %s;", tmp, length)
	c.block.Linef("%s.values = (void*)%s;", tmp, buf)
	return plain(tmp, ir.ListOf(ir.ByteType())), nil
}

// ifExpr evaluates both branches eagerly and selects one of the two
// values into a merged temporary.
func (c *Context) ifExpr(e ir.If) ([]Value, error) {
	cond, err := c.operand("If", e.Cond, ir.BitType())
	if err != nil {
		return nil, err
	}
	thenV, err := c.single("If", e.Then)
	if err != nil {
		return nil, err
	}
	elseV, err := c.single("If", e.Else)
	if err != nil {
		return nil, err
	}
	typ, err := ir.Unify(thenV.Type, elseV.Type)
	if err != nil {
		return nil, c.errorf(comperr.TypeMismatch, "If branches: %s", err)
	}
	tmp := c.names.Name("tmp")
	c.block.Linef("%s %s;", typ.CType(), tmp)
	c.block.Linef("if (%s) {", cond.Name)
	c.block.Indent()
	c.block.Linef("%s = %s;", tmp, thenV.Name)
	c.block.Dedent()
	c.block.Linef("} else {")
	c.block.Indent()
	c.block.Linef("%s = %s;", tmp, elseV.Name)
	c.block.Dedent()
	c.block.Linef("}")
	return plain(tmp, typ), nil
}

// fold introduces one persistent slot per fold in the body, each at
// its own synthetic input index after the declared inputs.
func (c *Context) fold(e ir.Fold) ([]Value, error) {
	ordinal := len(c.folds)
	slot := fmt.Sprintf("%s_fold_%d", c.stream.Name(), ordinal)
	seedCtx := &Context{stream: c.stream, names: c.names, block: NewBlock(2)}
	seedV, err := seedCtx.single("Fold", e.Seed)
	if err != nil {
		return nil, err
	}
	if len(seedCtx.folds) > 0 {
		return nil, c.errorf(comperr.DuplicateInput, "Fold seed cannot contain another Fold")
	}
	seedCtx.block.Linef("%s = %s;", slot, seedV.Name)
	f := &FoldSlot{Name: slot, Type: seedV.Type, Init: seedCtx.block.Lines()}
	c.folds = append(c.folds, f)
	c.foldActive = append(c.foldActive, true)
	stepV, err := c.single("Fold", e.Step)
	c.foldActive[ordinal] = false
	if err != nil {
		return nil, err
	}
	if !stepV.Type.Equal(f.Type) {
		return nil, c.errorf(comperr.TypeMismatch, "Fold step yields %s but the seed is %s", stepV.Type, f.Type)
	}
	c.block.Linef("%s = %s;", slot, stepV.Name)
	return plain(slot, f.Type), nil
}

// filter always computes the value and guards its delivery.
func (c *Context) filter(e ir.Filter) ([]Value, error) {
	cond, err := c.operand("Filter", e.Cond, ir.BitType())
	if err != nil {
		return nil, err
	}
	vals, err := c.Expr(e.Value)
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, c.errorf(comperr.TypeMismatch, "Filter expects a single value but got %d", len(vals))
	}
	v := vals[0]
	switch v.Mode {
	case Plain:
		return []Value{{Name: v.Name, Type: v.Type, Mode: Guarded, Guard: cond.Name}}, nil
	case Guarded:
		guard := c.names.Name("guard")
		c.block.Linef("bool %s = %s && %s;", guard, cond.Name, v.Guard)
		return []Value{{Name: v.Name, Type: v.Type, Mode: Guarded, Guard: guard}}, nil
	}
	return nil, c.errorf(comperr.TypeMismatch, "Filter cannot guard an unrolled value")
}

// flatten converts a list value to the unrolled emission policy.
func (c *Context) flatten(e ir.Flatten) ([]Value, error) {
	v, err := c.single("Flatten", e.X)
	if err != nil {
		return nil, err
	}
	elem, ok := v.Type.Elem()
	if !ok {
		return nil, c.errorf(comperr.TypeMismatch, "Flatten expects a list operand but got %s", v.Type)
	}
	return []Value{{Name: v.Name, Type: elem, Mode: Unrolled}}, nil
}
