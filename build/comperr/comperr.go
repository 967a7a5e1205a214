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

// Package comperr defines the compilation error taxonomy.
//
// Every error produced while assembling, scheduling, typing, or
// lowering a stream graph is one of a small set of kinds, attached
// to the name of the stream it was detected on. All of them are
// fatal for the compilation: no C file is written once one has been
// reported.
package comperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a compilation error.
type Kind int

const (
	// UnknownStream is a reference to a name with no declaration.
	UnknownStream Kind = iota
	// DuplicateInput is a stream declaring the same argument index twice.
	DuplicateInput
	// CyclicGraph is a dependency cycle outside the fold construct.
	CyclicGraph
	// TypeMismatch is a unification failure or an operand of the wrong type.
	TypeMismatch
	// MalformedInstruction is a low-level instruction chain that does not
	// terminate or an instruction with the wrong arity.
	MalformedInstruction
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case UnknownStream:
		return "unknown stream"
	case DuplicateInput:
		return "duplicate input"
	case CyclicGraph:
		return "cyclic graph"
	case TypeMismatch:
		return "type mismatch"
	case MalformedInstruction:
		return "malformed instruction"
	}
	return fmt.Sprintf("invalid error kind %d", int(k))
}

// Error is a compilation error attached to a stream.
type Error struct {
	kind   Kind
	stream string
	err    error
}

// Errorf returns a formatted compilation error of the given kind,
// owned by the named stream.
func Errorf(kind Kind, stream string, format string, a ...any) *Error {
	return &Error{kind: kind, stream: stream, err: errors.Errorf(format, a...)}
}

// Kind of the error.
func (e *Error) Kind() Kind { return e.kind }

// Stream owning the error.
func (e *Error) Stream() string { return e.stream }

// Error returns a string description of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("stream %s: %s: %s", e.stream, e.kind, e.err)
}

// Unwrap the underlying error.
func (e *Error) Unwrap() error { return e.err }

// IsKind returns true if err is a compilation error of the given kind.
func IsKind(err error, kind Kind) bool {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return false
	}
	return cerr.kind == kind
}
