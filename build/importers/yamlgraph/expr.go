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

package yamlgraph

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/YPares/frp-arduino/build/ir"
)

// parseExpr decodes one expression node: a map with a single key
// naming the constructor.
func parseExpr(v any) (ir.Expr, error) {
	op, arg, err := constructor(v)
	if err != nil {
		return nil, err
	}
	switch op {
	case "input":
		n, err := intArg(op, arg)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errors.Errorf("an input index cannot be negative, got %d", n)
		}
		return ir.Input{Index: n}, nil
	case "byte":
		n, err := intArg(op, arg)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 255 {
			return nil, errors.Errorf("byte constant %d out of range", n)
		}
		return ir.ByteConstant{Value: uint8(n)}, nil
	case "word":
		n, err := intArg(op, arg)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 65535 {
			return nil, errors.Errorf("word constant %d out of range", n)
		}
		return ir.WordConstant{Value: uint16(n)}, nil
	case "bit":
		return bitConstant(arg)
	case "not":
		return unary(arg, func(x ir.Expr) ir.Expr { return ir.Not{X: x} })
	case "even":
		return unary(arg, func(x ir.Expr) ir.Expr { return ir.Even{X: x} })
	case "bool-to-bit":
		return unary(arg, func(x ir.Expr) ir.Expr { return ir.BoolToBit{X: x} })
	case "is-high":
		return unary(arg, func(x ir.Expr) ir.Expr { return ir.IsHigh{X: x} })
	case "flatten":
		return unary(arg, func(x ir.Expr) ir.Expr { return ir.Flatten{X: x} })
	case "number-to-bytes":
		return unary(arg, func(x ir.Expr) ir.Expr { return ir.NumberToByteArray{X: x} })
	case "greater":
		return binary(arg, func(x, y ir.Expr) ir.Expr { return ir.Greater{X: x, Y: y} })
	case "add":
		return binary(arg, func(x, y ir.Expr) ir.Expr { return ir.Add{X: x, Y: y} })
	case "sub":
		return binary(arg, func(x, y ir.Expr) ir.Expr { return ir.Sub{X: x, Y: y} })
	case "if":
		cond, err := field(arg, "cond")
		if err != nil {
			return nil, err
		}
		then, err := field(arg, "then")
		if err != nil {
			return nil, err
		}
		els, err := field(arg, "else")
		if err != nil {
			return nil, err
		}
		return ir.If{Cond: cond, Then: then, Else: els}, nil
	case "fold":
		step, err := field(arg, "step")
		if err != nil {
			return nil, err
		}
		seed, err := field(arg, "seed")
		if err != nil {
			return nil, err
		}
		return ir.Fold{Step: step, Seed: seed}, nil
	case "filter":
		cond, err := field(arg, "cond")
		if err != nil {
			return nil, err
		}
		value, err := field(arg, "value")
		if err != nil {
			return nil, err
		}
		return ir.Filter{Cond: cond, Value: value}, nil
	case "many":
		elems, err := exprList(arg)
		if err != nil {
			return nil, err
		}
		return ir.Many{Exprs: elems}, nil
	case "list":
		elems, err := exprList(arg)
		if err != nil {
			return nil, err
		}
		return ir.ListConstant{Elems: elems}, nil
	}
	return nil, errors.Errorf("unknown expression constructor %q", op)
}

// intArg decodes an integer scalar strictly: a malformed scalar is a
// parse error, never a silent zero.
func intArg(op string, arg any) (int, error) {
	n, err := cast.ToIntE(arg)
	if err != nil {
		return 0, errors.Errorf("%s expects an integer, got %v", op, arg)
	}
	return n, nil
}

// constructor splits a single-key map into the constructor name and
// its argument.
func constructor(v any) (string, any, error) {
	m, ok := v.(map[any]any)
	if !ok || len(m) != 1 {
		return "", nil, errors.Errorf("an expression is a map with a single constructor key, got %T", v)
	}
	for k, arg := range m {
		return cast.ToString(k), arg, nil
	}
	return "", nil, errors.Errorf("empty expression")
}

func bitConstant(arg any) (ir.Expr, error) {
	switch cast.ToString(arg) {
	case "high":
		return ir.BitConstant{Value: ir.High}, nil
	case "low":
		return ir.BitConstant{Value: ir.Low}, nil
	}
	return nil, errors.Errorf("a bit constant is \"high\" or \"low\", got %v", arg)
}

func unary(arg any, build func(ir.Expr) ir.Expr) (ir.Expr, error) {
	x, err := parseExpr(arg)
	if err != nil {
		return nil, err
	}
	return build(x), nil
}

func binary(arg any, build func(x, y ir.Expr) ir.Expr) (ir.Expr, error) {
	elems, err := exprList(arg)
	if err != nil {
		return nil, err
	}
	if len(elems) != 2 {
		return nil, errors.Errorf("a binary constructor takes a list of 2 operands, got %d", len(elems))
	}
	return build(elems[0], elems[1]), nil
}

func exprList(arg any) ([]ir.Expr, error) {
	list, ok := arg.([]any)
	if !ok {
		return nil, errors.Errorf("expected a list of expressions, got %T", arg)
	}
	elems := make([]ir.Expr, len(list))
	for i, v := range list {
		var err error
		if elems[i], err = parseExpr(v); err != nil {
			return nil, err
		}
	}
	return elems, nil
}

func field(arg any, name string) (ir.Expr, error) {
	m, ok := arg.(map[any]any)
	if !ok {
		return nil, errors.Errorf("expected a map with a %q key, got %T", name, arg)
	}
	v, ok := m[name]
	if !ok {
		return nil, errors.Errorf("missing %q key", name)
	}
	return parseExpr(v)
}
