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
	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
)

// Instr lowers a low-level instruction chain, appending its
// statements to the block and returning the result values the chain
// yields, in chain order. A chain must terminate in End: a nil link
// is a malformed chain.
func (c *Context) Instr(in ir.Instr) ([]Value, error) {
	if in == nil {
		return nil, c.errorf(comperr.MalformedInstruction, "instruction chain does not terminate in End")
	}
	switch i := in.(type) {
	case ir.End:
		return nil, nil
	case ir.WriteBit:
		if err := c.writeBit(i); err != nil {
			return nil, err
		}
		return c.Instr(i.Next)
	case ir.WriteByte:
		v, err := c.instrValue(i.Value, ir.ByteType())
		if err != nil {
			return nil, err
		}
		c.block.Linef("%s = %s;", i.Reg, v.Name)
		return c.Instr(i.Next)
	case ir.WriteWord:
		v, err := c.instrValue(i.Value, ir.WordType())
		if err != nil {
			return nil, err
		}
		c.block.Linef("%s = %s;", i.Reg, v.Name)
		return c.Instr(i.Next)
	case ir.ReadBit:
		tmp := c.names.Name("tmp")
		c.block.Linef("bool %s = (%s & (1 << %s)) != 0;", tmp, i.Reg, i.Bit)
		rest, err := c.Instr(i.Next)
		if err != nil {
			return nil, err
		}
		return append(plain(tmp, ir.BitType()), rest...), nil
	case ir.ReadWord:
		tmp := c.names.Name("tmp")
		c.block.Linef("uint16_t %s = %s;", tmp, i.Reg)
		rest, err := c.Instr(i.Next)
		if err != nil {
			return nil, err
		}
		return append(plain(tmp, ir.WordType()), rest...), nil
	case ir.WaitBit:
		if i.Value == ir.High {
			c.block.Linef("while (!(%s & (1 << %s)));", i.Reg, i.Bit)
		} else {
			c.block.Linef("while (%s & (1 << %s));", i.Reg, i.Bit)
		}
		return c.Instr(i.Next)
	case ir.Switch:
		if err := c.switchInstr(i); err != nil {
			return nil, err
		}
		return c.Instr(i.Next)
	}
	return nil, c.errorf(comperr.MalformedInstruction, "%s cannot be used in statement position", ir.InstrConstructor(in))
}

// writeBit sets or clears one register bit. A constant value folds
// into a single set or clear; anything else branches on the value.
func (c *Context) writeBit(i ir.WriteBit) error {
	if cb, ok := i.Value.(ir.ConstBit); ok {
		if cb.Value == ir.High {
			c.block.Linef("%s |= (1 << %s);", i.Reg, i.Bit)
		} else {
			c.block.Linef("%s &= ~(1 << %s);", i.Reg, i.Bit)
		}
		return nil
	}
	v, err := c.instrValue(i.Value, ir.BitType())
	if err != nil {
		return err
	}
	c.block.Linef("if (%s) {", v.Name)
	c.block.Indent()
	c.block.Linef("%s |= (1 << %s);", i.Reg, i.Bit)
	c.block.Dedent()
	c.block.Linef("} else {")
	c.block.Indent()
	c.block.Linef("%s &= ~(1 << %s);", i.Reg, i.Bit)
	c.block.Dedent()
	c.block.Linef("}")
	return nil
}

func (c *Context) switchInstr(i ir.Switch) error {
	if i.Cond == nil || i.IfHigh == nil || i.IfLow == nil {
		return c.errorf(comperr.MalformedInstruction, "Switch needs a condition and two branches")
	}
	cond, err := c.instrValue(i.Cond, ir.BitType())
	if err != nil {
		return err
	}
	c.block.Linef("if (%s) {", cond.Name)
	c.block.Indent()
	highVals, err := c.Instr(i.IfHigh)
	if err != nil {
		return err
	}
	c.block.Dedent()
	c.block.Linef("} else {")
	c.block.Indent()
	lowVals, err := c.Instr(i.IfLow)
	if err != nil {
		return err
	}
	c.block.Dedent()
	c.block.Linef("}")
	if len(highVals) > 0 || len(lowVals) > 0 {
		return c.errorf(comperr.MalformedInstruction, "Switch branches cannot yield values")
	}
	return nil
}

// instrValue lowers an instruction in value position and checks the
// type of the value it produces.
func (c *Context) instrValue(in ir.Instr, want ir.Type) (Value, error) {
	v, err := c.instrValueAny(in)
	if err != nil {
		return Value{}, err
	}
	if !v.Type.Equal(want) {
		return Value{}, c.errorf(comperr.TypeMismatch, "%s produces %s but the register write expects %s", ir.InstrConstructor(in), v.Type, want)
	}
	return v, nil
}

func (c *Context) instrValueAny(in ir.Instr) (Value, error) {
	if in == nil {
		return Value{}, c.errorf(comperr.MalformedInstruction, "missing value instruction")
	}
	switch i := in.(type) {
	case ir.ConstBit:
		return Value{Name: cbool(i.Value), Type: ir.BitType()}, nil
	case ir.ConstByte:
		tmp := c.names.Name("tmp")
		c.block.Linef("uint8_t %s = %d;", tmp, i.Value)
		return Value{Name: tmp, Type: ir.ByteType()}, nil
	case ir.ConstWord:
		tmp := c.names.Name("tmp")
		c.block.Linef("uint16_t %s = %d;", tmp, i.Value)
		return Value{Name: tmp, Type: ir.WordType()}, nil
	case ir.InputValue:
		if c.init {
			return Value{}, c.errorf(comperr.MalformedInstruction, "InputValue cannot be used in an initialization program")
		}
		if len(c.inputTypes) != 1 {
			return Value{}, c.errorf(comperr.MalformedInstruction, "InputValue requires exactly one input but the stream has %d", len(c.inputTypes))
		}
		return Value{Name: InputName(0), Type: c.inputTypes[0]}, nil
	case ir.ReadBit:
		if err := c.valueTail(i.Next); err != nil {
			return Value{}, err
		}
		tmp := c.names.Name("tmp")
		c.block.Linef("bool %s = (%s & (1 << %s)) != 0;", tmp, i.Reg, i.Bit)
		return Value{Name: tmp, Type: ir.BitType()}, nil
	case ir.ReadWord:
		if err := c.valueTail(i.Next); err != nil {
			return Value{}, err
		}
		tmp := c.names.Name("tmp")
		c.block.Linef("uint16_t %s = %s;", tmp, i.Reg)
		return Value{Name: tmp, Type: ir.WordType()}, nil
	}
	return Value{}, c.errorf(comperr.MalformedInstruction, "%s cannot be used in value position", ir.InstrConstructor(in))
}

// valueTail rejects continuations on reads used in value position:
// the chain belongs to the enclosing instruction there.
func (c *Context) valueTail(next ir.Instr) error {
	if next == nil {
		return nil
	}
	if _, ok := next.(ir.End); ok {
		return nil
	}
	return c.errorf(comperr.MalformedInstruction, "a read in value position cannot continue into %s", ir.InstrConstructor(next))
}
