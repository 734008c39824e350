// Package types implements the type system of §3: a closed sum of
// primitive, pointer, array, struct, and function types, interned behind
// opaque handles so structurally equal types always share identity
// (§9 "Type interning vs. reference cycles").
package types

import "fmt"

// Kind is the closed sum tag for Type.
type Kind int

const (
	Void Kind = iota
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
	Pointer
	Array
	Struct
	Function
)

var primitiveSizes = map[Kind]int{
	Void: 0,
	I8:   1, U8: 1,
	I16: 2, U16: 2,
	I32: 4, U32: 4,
	I64: 8, U64: 8,
	F32: 4, F64: 8,
}

var primitiveNames = map[Kind]string{
	Void: "void",
	I8:   "i8", U8: "u8",
	I16: "i16", U16: "u16",
	I32: "i32", U32: "u32",
	I64: "i64", U64: "u64",
	F32: "f32", F64: "f64",
}

// Member is one field of a Struct type, laid out at a fixed byte offset.
type Member struct {
	Name   string
	Type   *Type
	Offset int
}

// Type is an interned handle. All fields are unexported; construct and
// intern types only through a Registry so equal types are guaranteed to
// share identity (comparable with ==).
type Type struct {
	kind Kind
	size int

	// Pointer, Array
	elem *Type
	len  int // Array only

	// Struct
	name    string
	members []Member

	// Function
	params    []*Type
	hasParams bool
	ret       *Type
}

func (t *Type) Kind() Kind  { return t.kind }
func (t *Type) Size() int   { return t.size }
func (t *Type) Elem() *Type { return t.elem }
func (t *Type) Len() int    { return t.len }
func (t *Type) Name() string {
	if t.kind == Struct {
		return t.name
	}
	return t.String()
}
func (t *Type) Members() []Member { return t.members }
func (t *Type) Params() []*Type   { return t.params }
func (t *Type) HasParams() bool   { return t.hasParams }
func (t *Type) Ret() *Type        { return t.ret }

// IsInteger reports whether t is one of the eight integer primitives.
func (t *Type) IsInteger() bool {
	switch t.kind {
	case I8, U8, I16, U16, I32, U32, I64, U64:
		return true
	}
	return false
}

// IsFloat reports whether t is one of the two floating-point primitives
// (§1 Non-goals: recognised as a type, never code-generated as a value).
func (t *Type) IsFloat() bool {
	return t.kind == F32 || t.kind == F64
}

func (t *Type) IsPointer() bool { return t.kind == Pointer }
func (t *Type) IsArray() bool   { return t.kind == Array }
func (t *Type) IsVoid() bool    { return t.kind == Void }

// Decayed returns the type t decays to when used as an rvalue outside
// indexing: Array(n, T) decays to Pointer(T); every other type is
// unchanged.
func (t *Type) Decayed(reg *Registry) *Type {
	if t.kind != Array {
		return t
	}
	return reg.Pointer(t.elem)
}

func (t *Type) String() string {
	switch t.kind {
	case Pointer:
		return t.elem.String() + "*"
	case Array:
		return fmt.Sprintf("%s[%d]", t.elem.String(), t.len)
	case Struct:
		return "struct " + t.name
	case Function:
		return "function"
	default:
		return primitiveNames[t.kind]
	}
}

// Equal reports structural equality (§3): same kind and structurally
// equal; structs compare nominally (same name only). Because all Types
// are produced by a Registry and interned, Equal(other) and t == other
// agree for any pair of types drawn from the same Registry — Equal is
// provided for clarity at call sites and for comparing handles from
// different registries (not a case this compiler ever needs, but kept
// correct at no cost).
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || t.kind != other.kind {
		return false
	}
	switch t.kind {
	case Pointer:
		return t.elem.Equal(other.elem)
	case Array:
		return t.len == other.len && t.elem.Equal(other.elem)
	case Struct:
		return t.name == other.name
	case Function:
		return t.ret.Equal(other.ret) && paramsEqual(t.params, t.hasParams, other.params, other.hasParams)
	default:
		return true // equal primitive kinds are always equal
	}
}

func paramsEqual(a []*Type, aHas bool, b []*Type, bHas bool) bool {
	if aHas != bHas {
		return false
	}
	if !aHas {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
