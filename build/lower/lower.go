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

// Package lower compiles the expression and instruction algebras
// into C statements and result values.
//
// Lowering one stream body produces a block of statements and a list
// of result values, each a named C storage location with a type and
// an emission policy. The policy tells the function emitter how to
// forward the value to consumers: always, behind a guard condition,
// or element by element for list values. Lowering mutates only its
// own context (fresh-name counters, the statement block, fold
// slots); the graph and the inferred types are never touched, so a
// body can be lowered twice — once type-only during inference and
// once for emission — with identical results.
package lower

import (
	"fmt"
	"strings"

	"github.com/YPares/frp-arduino/base/uname"
	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
)

// Mode is the emission policy of a result value.
type Mode int

const (
	// Plain values are always forwarded to consumers.
	Plain Mode = iota
	// Guarded values are forwarded only if their guard condition holds.
	Guarded
	// Unrolled values are lists forwarded one element per call.
	Unrolled
)

// String returns the policy name as used in diagnostics.
func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case Guarded:
		return "guarded"
	case Unrolled:
		return "unrolled"
	}
	return fmt.Sprintf("invalid mode %d", int(m))
}

// Value is the outcome of lowering: a C storage name, its type, and
// how the function emitter must deliver it. For an Unrolled value,
// Name is the list struct and Type is the element type.
type Value struct {
	Name  string
	Type  ir.Type
	Mode  Mode
	Guard string
}

// FoldSlot is one persistent storage slot introduced by a fold: a
// file-scope static, seeded once in main before the drive loop.
// Init holds the seed statements; their last line assigns the slot.
type FoldSlot struct {
	Name string
	Type ir.Type
	Init []string
}

// Block accumulates indented C statements.
type Block struct {
	indent int
	lines  []string
}

// NewBlock returns an empty block at the given indentation depth.
func NewBlock(indent int) *Block {
	return &Block{indent: indent}
}

// Linef appends one formatted statement at the current depth.
func (b *Block) Linef(format string, args ...any) {
	b.lines = append(b.lines, strings.Repeat("    ", b.indent)+fmt.Sprintf(format, args...))
}

// Indent one level deeper.
func (b *Block) Indent() { b.indent++ }

// Dedent one level back.
func (b *Block) Dedent() { b.indent-- }

// Lines returns the accumulated statements.
func (b *Block) Lines() []string { return b.lines }

// Context is the single-pass generation state for one stream body:
// fresh names, the statement block, the input bindings, and the fold
// slots discovered while lowering. It is private to one compilation
// and never shared.
type Context struct {
	stream     *ir.Stream
	inputTypes []ir.Type
	names      *uname.Unique
	block      *Block
	init       bool

	folds      []*FoldSlot
	foldActive []bool
}

// NewContext returns a lowering context for one stream whose input
// latch types are already known.
func NewContext(s *ir.Stream, inputTypes []ir.Type) *Context {
	return &Context{
		stream:     s,
		inputTypes: inputTypes,
		names:      uname.New(),
		block:      NewBlock(1),
	}
}

// NewInitContext returns a lowering context for a driver's
// initialization program. Init statements are spliced into main, one
// braced block per driver, so each init has its own scope and its
// fresh names cannot collide with another driver's. Inputs are not in
// scope: no latch has fired before the drive loop starts.
func NewInitContext(s *ir.Stream) *Context {
	return &Context{
		stream: s,
		names:  uname.New(),
		block:  NewBlock(2),
		init:   true,
	}
}

// Block returns the statements lowered so far.
func (c *Context) Block() *Block { return c.block }

// Folds returns the fold slots introduced by the body.
func (c *Context) Folds() []*FoldSlot { return c.folds }

// Fresh returns a fresh name with the given base, unique within the
// function being lowered. The emitter uses it for the loop variables
// of unrolled deliveries.
func (c *Context) Fresh(root string) string {
	return c.names.Name(root)
}

// InputName returns the C identifier of the latch slot for the given
// argument index.
func InputName(index int) string {
	return fmt.Sprintf("input_%d", index)
}

func (c *Context) errorf(kind comperr.Kind, format string, args ...any) error {
	return comperr.Errorf(kind, c.stream.Name(), format, args...)
}

// input resolves an input reference: a declared argument index maps
// to its latch slot, and indices past the declared arity map to the
// synthetic fold slots currently in scope.
func (c *Context) input(index int) (Value, error) {
	if index >= 0 && index < len(c.inputTypes) {
		return Value{Name: InputName(index), Type: c.inputTypes[index]}, nil
	}
	fold := index - len(c.inputTypes)
	if fold >= 0 && fold < len(c.folds) && c.foldActive[fold] {
		return Value{Name: c.folds[fold].Name, Type: c.folds[fold].Type}, nil
	}
	return Value{}, c.errorf(comperr.DuplicateInput, "input index %d is not bound (stream has %d inputs)", index, len(c.inputTypes))
}
