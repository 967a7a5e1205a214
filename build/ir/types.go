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

import "github.com/pkg/errors"

// Kind discriminates the machine types a stream can produce.
type Kind int

const (
	// InvalidKind is the zero value, produced by no valid type.
	InvalidKind Kind = iota
	// BitKind is a single boolean bit.
	BitKind
	// ByteKind is an unsigned 8-bit value.
	ByteKind
	// WordKind is an unsigned 16-bit value.
	WordKind
	// VoidKind is the type of streams producing no value.
	VoidKind
	// ListKind is a fixed-size list of a single element type.
	ListKind
)

// Type is a machine type: Bit, Byte, Word, Void, or List(T).
// Equality is structural and there is no implicit widening:
// two types unify only if they are literally the same.
type Type struct {
	kind Kind
	elem *Type
}

// BitType returns the type of a single bit.
func BitType() Type { return Type{kind: BitKind} }

// ByteType returns the type of an unsigned 8-bit value.
func ByteType() Type { return Type{kind: ByteKind} }

// WordType returns the type of an unsigned 16-bit value.
func WordType() Type { return Type{kind: WordKind} }

// VoidType returns the type of streams producing no value.
func VoidType() Type { return Type{kind: VoidKind} }

// ListOf returns the type of a list with the given element type.
func ListOf(elem Type) Type { return Type{kind: ListKind, elem: &elem} }

// Kind of the type.
func (t Type) Kind() Kind { return t.kind }

// Valid returns true for every type but the zero value.
func (t Type) Valid() bool { return t.kind != InvalidKind }

// Elem returns the element type of a list. It returns false
// for any non-list type.
func (t Type) Elem() (Type, bool) {
	if t.kind != ListKind {
		return Type{}, false
	}
	return *t.elem, true
}

// Equal returns true if both types are structurally identical.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	if t.kind != ListKind {
		return true
	}
	return t.elem.Equal(*o.elem)
}

// String returns the type as written in diagnostics.
func (t Type) String() string {
	switch t.kind {
	case BitKind:
		return "bit"
	case ByteKind:
		return "byte"
	case WordKind:
		return "word"
	case VoidKind:
		return "void"
	case ListKind:
		return "list(" + t.elem.String() + ")"
	}
	return "invalid"
}

// CType returns the C spelling of the type in the emitted program.
// Lists all share one generic struct: the element type only shows
// up at the cast sites the emitter generates.
func (t Type) CType() string {
	switch t.kind {
	case BitKind:
		return "bool"
	case ByteKind:
		return "uint8_t"
	case WordKind:
		return "uint16_t"
	case VoidKind:
		return "void"
	case ListKind:
		return "struct list"
	}
	return "invalid"
}

// Unify returns the common type of a and b, or an error if they
// are not structurally identical.
func Unify(a, b Type) (Type, error) {
	if !a.Equal(b) {
		return Type{}, errors.Errorf("cannot unify %s with %s", a, b)
	}
	return a, nil
}

// UnifyAll unifies every type in the slice. At least one type is required.
func UnifyAll(types []Type) (Type, error) {
	if len(types) == 0 {
		return Type{}, errors.Errorf("no type to unify")
	}
	unified := types[0]
	for _, typ := range types[1:] {
		var err error
		unified, err = Unify(unified, typ)
		if err != nil {
			return Type{}, err
		}
	}
	return unified, nil
}
