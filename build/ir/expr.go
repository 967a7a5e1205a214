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

package ir

import "fmt"

// Polarity is the level of a bit: High or Low.
type Polarity bool

const (
	// Low level.
	Low Polarity = false
	// High level.
	High Polarity = true
)

type (
	// Expr is the pure expression algebra of Transform bodies.
	// Every variant has a lowering case in build/lower and a typing
	// rule enforced there; an unknown variant is an internal error.
	Expr interface {
		isExpr()
	}

	// Not is the boolean negation of a bit operand.
	Not struct{ X Expr }

	// Even tests the parity of a word operand and yields a bit.
	Even struct{ X Expr }

	// Greater compares two word operands and yields a bit.
	Greater struct{ X, Y Expr }

	// Add sums two word operands.
	Add struct{ X, Y Expr }

	// Sub subtracts two word operands.
	Sub struct{ X, Y Expr }

	// Input references the latched argument at the given index of
	// the enclosing stream. Indices past the declared inputs are
	// the synthetic slots bound by Fold.
	Input struct{ Index int }

	// ByteConstant is an 8-bit literal.
	ByteConstant struct{ Value uint8 }

	// WordConstant is a 16-bit literal.
	WordConstant struct{ Value uint16 }

	// BitConstant is a literal bit level.
	BitConstant struct{ Value Polarity }

	// BoolToBit documents a boolean reinterpreted as a bit.
	// It does not change the lowered value.
	BoolToBit struct{ X Expr }

	// IsHigh documents a bit compared against the high level.
	// It does not change the lowered value.
	IsHigh struct{ X Expr }

	// Many concatenates the results of each sub-expression, fanning
	// one body out to several result values of one unified type.
	Many struct{ Exprs []Expr }

	// ListConstant materializes a fixed-size list from element
	// expressions of one unified type.
	ListConstant struct{ Elems []Expr }

	// NumberToByteArray formats a word as its decimal digits and
	// yields them as a list of bytes.
	NumberToByteArray struct{ X Expr }

	// If evaluates both branches eagerly and selects one of the two
	// values with a bit condition. Both branches must have the same
	// type.
	If struct{ Cond, Then, Else Expr }

	// Fold carries a value across invocations: a persistent slot is
	// seeded once at program start and bound as a synthetic input
	// while lowering Step; the slot is updated in place and its
	// post-update value is the result. This is the sole mechanism
	// for cross-invocation state.
	Fold struct {
		Step Expr
		Seed Expr
	}

	// Filter always computes Value but forwards it to consumers
	// only when Cond holds.
	Filter struct{ Cond, Value Expr }

	// Flatten takes a list-valued operand and forwards each element
	// to consumers as a separate call.
	Flatten struct{ X Expr }
)

func (Not) isExpr()               {}
func (Even) isExpr()              {}
func (Greater) isExpr()           {}
func (Add) isExpr()               {}
func (Sub) isExpr()               {}
func (Input) isExpr()             {}
func (ByteConstant) isExpr()      {}
func (WordConstant) isExpr()      {}
func (BitConstant) isExpr()       {}
func (BoolToBit) isExpr()         {}
func (IsHigh) isExpr()            {}
func (Many) isExpr()              {}
func (ListConstant) isExpr()      {}
func (NumberToByteArray) isExpr() {}
func (If) isExpr()                {}
func (Fold) isExpr()              {}
func (Filter) isExpr()            {}
func (Flatten) isExpr()           {}

// ExprConstructor returns the constructor name of an expression,
// as reported in diagnostics.
func ExprConstructor(e Expr) string {
	switch e.(type) {
	case Not:
		return "Not"
	case Even:
		return "Even"
	case Greater:
		return "Greater"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Input:
		return "Input"
	case ByteConstant:
		return "ByteConstant"
	case WordConstant:
		return "WordConstant"
	case BitConstant:
		return "BitConstant"
	case BoolToBit:
		return "BoolToBit"
	case IsHigh:
		return "IsHigh"
	case Many:
		return "Many"
	case ListConstant:
		return "ListConstant"
	case NumberToByteArray:
		return "NumberToByteArray"
	case If:
		return "If"
	case Fold:
		return "Fold"
	case Filter:
		return "Filter"
	case Flatten:
		return "Flatten"
	}
	return fmt.Sprintf("unknown expression %T", e)
}
