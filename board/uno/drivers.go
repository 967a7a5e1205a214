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

package uno

import "github.com/YPares/frp-arduino/build/ir"

// cpuHz is the clock frequency of the stock board.
const cpuHz = 16000000

// OutputPin returns a sink driver writing its sole bit input to the
// pin's port register. The pin is switched to output mode once at
// program start.
func OutputPin(p Pin) ir.Body {
	return ir.Driver{
		Init: ir.WriteBit{
			Reg:   p.DDR,
			Bit:   p.Bit,
			Value: ir.ConstBit{Value: ir.High},
			Next:  ir.End{},
		},
		Update: ir.WriteBit{
			Reg:   p.Port,
			Bit:   p.Bit,
			Value: ir.InputValue{},
			Next:  ir.End{},
		},
	}
}

// InputPin returns a root driver reading the pin's level each pass.
func InputPin(p Pin) ir.Body {
	return ir.Driver{
		Init: ir.WriteBit{
			Reg:   p.DDR,
			Bit:   p.Bit,
			Value: ir.ConstBit{Value: ir.Low},
			Next:  ir.End{},
		},
		Update: ir.ReadBit{Reg: p.In, Bit: p.Bit, Next: ir.End{}},
	}
}

// Timer1 returns a root driver reading the free-running 16-bit
// counter each pass, with the prescaler at clk/1024.
func Timer1() ir.Body {
	return ir.Driver{
		Init: ir.WriteByte{
			Reg:   "TCCR1B",
			Value: ir.ConstByte{Value: 5},
			Next:  ir.End{},
		},
		Update: ir.ReadWord{Reg: "TCNT1", Next: ir.End{}},
	}
}

// UART returns a sink driver transmitting its sole byte input on the
// serial port at the given baud rate. The update program spins until
// the data register is empty: this is the only blocking point of the
// generated program.
func UART(baud uint32) ir.Body {
	ubrr := uint16(cpuHz/16/baud - 1)
	return ir.Driver{
		Init: ir.WriteByte{
			Reg:   "UBRR0H",
			Value: ir.ConstByte{Value: uint8(ubrr >> 8)},
			Next: ir.WriteByte{
				Reg:   "UBRR0L",
				Value: ir.ConstByte{Value: uint8(ubrr)},
				Next: ir.WriteBit{
					Reg:   "UCSR0B",
					Bit:   "TXEN0",
					Value: ir.ConstBit{Value: ir.High},
					Next:  ir.End{},
				},
			},
		},
		Update: ir.WaitBit{
			Reg:   "UCSR0A",
			Bit:   "UDRE0",
			Value: ir.High,
			Next: ir.WriteByte{
				Reg:   "UDR0",
				Value: ir.InputValue{},
				Next:  ir.End{},
			},
		},
	}
}
