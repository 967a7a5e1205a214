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

type (
	// Body is what a stream computes: either a hardware driver or a
	// pure transform.
	Body interface {
		isBody()
	}

	// Driver is a hardware-facing body: a one-time initialization
	// program and a recurring update program, both written in the
	// low-level instruction algebra.
	Driver struct {
		Init   Instr
		Update Instr
	}

	// Transform is a pure expression over the stream's inputs.
	Transform struct {
		Expr Expr
	}
)

func (Driver) isBody()    {}
func (Transform) isBody() {}

// Output is one fan-out edge of a stream: the arena index of the
// consumer and the argument index the call supplies at the consumer.
type Output struct {
	Consumer int
	ArgIndex int
}

// Stream is a named node of the dataflow graph. Streams are arena
// entries: inputs and outputs reference other streams by index, so
// the dangling-reference invariant is a bounds check after
// construction.
type Stream struct {
	id      int
	name    string
	inputs  []int
	outputs []Output
	body    Body
}

// ID is the arena index of the stream.
func (s *Stream) ID() int { return s.id }

// Name of the stream, used as the emitted function's symbol.
func (s *Stream) Name() string { return s.name }

// NumInputs returns the number of declared inputs.
func (s *Stream) NumInputs() int { return len(s.inputs) }

// Input returns the arena index of the producer feeding the given
// argument index.
func (s *Stream) Input(i int) int { return s.inputs[i] }

// Outputs returns the fan-out edges of the stream, in the
// declaration order of their consumers.
func (s *Stream) Outputs() []Output { return s.outputs }

// Body of the stream.
func (s *Stream) Body() Body { return s.body }

// IsRoot returns true for zero-input streams, driven by the outer
// loop rather than by another stream's call.
func (s *Stream) IsRoot() bool { return len(s.inputs) == 0 }
