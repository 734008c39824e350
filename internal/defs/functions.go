// Package defs implements the definitions environment of §4.2: the type
// registry (delegated to internal/types), the function table, and the
// variable table with lexical scoping, shadowing, and frame-offset
// assignment. It is mutated while parsing and queried during code
// generation, exactly as §3 describes.
package defs

import (
	"fmt"

	"github.com/cwbudde/minic/internal/types"
)

// FunctionDecl is a function's signature: its parameter types (nil when
// unspecified, §3) and return type.
type FunctionDecl struct {
	ArgTypes    []*types.Type
	HasArgTypes bool
	ReturnType  *types.Type
}

func (d *FunctionDecl) Equal(other *FunctionDecl) bool {
	if d.HasArgTypes != other.HasArgTypes {
		return false
	}
	if d.HasArgTypes {
		if len(d.ArgTypes) != len(other.ArgTypes) {
			return false
		}
		for i := range d.ArgTypes {
			if !d.ArgTypes[i].Equal(other.ArgTypes[i]) {
				return false
			}
		}
	}
	return d.ReturnType.Equal(other.ReturnType)
}

// FunctionTable maps function names to their declared signature and
// tracks which names already have a body (§3: "A separate *implemented*
// set records which names have a body; a second body for the same name
// is rejected").
type FunctionTable struct {
	decls       map[string]*FunctionDecl
	implemented map[string]bool
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{
		decls:       make(map[string]*FunctionDecl),
		implemented: make(map[string]bool),
	}
}

// Declare registers name with decl. A redeclaration is accepted only if
// decl is Equal to the existing signature; otherwise it is rejected.
func (t *FunctionTable) Declare(name string, decl *FunctionDecl) error {
	if existing, ok := t.decls[name]; ok {
		if !existing.Equal(decl) {
			return fmt.Errorf("conflicting declaration of function %q", name)
		}
		return nil
	}
	t.decls[name] = decl
	return nil
}

// Lookup returns the declared signature for name, if any.
func (t *FunctionTable) Lookup(name string) (*FunctionDecl, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// CanImplement reports whether name may receive a body: it must be
// declared and must not already be implemented.
func (t *FunctionTable) CanImplement(name string) error {
	if _, ok := t.decls[name]; !ok {
		return fmt.Errorf("function %q implemented without a declaration", name)
	}
	if t.implemented[name] {
		return fmt.Errorf("function %q already implemented", name)
	}
	return nil
}

// MarkImplemented records that name now has a body.
func (t *FunctionTable) MarkImplemented(name string) {
	t.implemented[name] = true
}
