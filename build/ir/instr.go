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

type (
	// Instr is the low-level instruction algebra of Driver bodies:
	// a linked chain of register operations terminated by End.
	// A chain with a nil link instead of End is malformed.
	Instr interface {
		isInstr()
	}

	// End terminates an instruction chain.
	End struct{}

	// WriteBit stores a bit value into one bit of a named register.
	WriteBit struct {
		Reg   string
		Bit   string
		Value Instr
		Next  Instr
	}

	// WriteByte stores a byte value into a named register.
	WriteByte struct {
		Reg   string
		Value Instr
		Next  Instr
	}

	// WriteWord stores a word value into a named register.
	WriteWord struct {
		Reg   string
		Value Instr
		Next  Instr
	}

	// ReadBit reads one bit of a named register, yielding it as a
	// result value, and continues with the rest of the chain.
	ReadBit struct {
		Reg  string
		Bit  string
		Next Instr
	}

	// ReadWord reads a named register as a word, yielding it as a
	// result value, and continues with the rest of the chain.
	ReadWord struct {
		Reg  string
		Next Instr
	}

	// WaitBit busy-spins until one bit of a named register reaches
	// the expected polarity. This is the only blocking primitive of
	// the target and it blocks the whole control flow.
	WaitBit struct {
		Reg   string
		Bit   string
		Value Polarity
		Next  Instr
	}

	// Switch evaluates a boolean sub-instruction and continues down
	// one of two chains depending on its value, then continues with
	// a shared tail.
	Switch struct {
		Cond   Instr
		IfHigh Instr
		IfLow  Instr
		Next   Instr
	}

	// ConstBit is a literal bit value, usable only in value position.
	ConstBit struct{ Value Polarity }

	// ConstByte is a literal byte value, usable only in value position.
	ConstByte struct{ Value uint8 }

	// ConstWord is a literal word value, usable only in value position.
	ConstWord struct{ Value uint16 }

	// InputValue references the sole input of the driver's stream,
	// usable only in value position.
	InputValue struct{}
)

func (End) isInstr()        {}
func (WriteBit) isInstr()   {}
func (WriteByte) isInstr()  {}
func (WriteWord) isInstr()  {}
func (ReadBit) isInstr()    {}
func (ReadWord) isInstr()   {}
func (WaitBit) isInstr()    {}
func (Switch) isInstr()     {}
func (ConstBit) isInstr()   {}
func (ConstByte) isInstr()  {}
func (ConstWord) isInstr()  {}
func (InputValue) isInstr() {}

// InstrConstructor returns the constructor name of an instruction,
// as reported in diagnostics.
func InstrConstructor(in Instr) string {
	switch in.(type) {
	case End:
		return "End"
	case WriteBit:
		return "WriteBit"
	case WriteByte:
		return "WriteByte"
	case WriteWord:
		return "WriteWord"
	case ReadBit:
		return "ReadBit"
	case ReadWord:
		return "ReadWord"
	case WaitBit:
		return "WaitBit"
	case Switch:
		return "Switch"
	case ConstBit:
		return "ConstBit"
	case ConstByte:
		return "ConstByte"
	case ConstWord:
		return "ConstWord"
	case InputValue:
		return "InputValue"
	}
	return fmt.Sprintf("unknown instruction %T", in)
}
