package defs

import (
	"fmt"

	"github.com/cwbudde/minic/internal/types"
)

// Variable is either a permanent Global or a Local with a scope depth and
// a frame offset assigned at declaration time (§3).
type Variable struct {
	Name        string
	Type        *types.Type
	IsLocal     bool
	ScopeDepth  int
	FrameOffset int // distance below rbp; meaningless for globals
}

type scopeFrame struct {
	names []string // names declared directly in this scope, for exitBlock bookkeeping
}

// VariableTable is the variable half of the definitions environment: a
// permanent global table plus a stack of local scopes with shadowing,
// implemented as an undo-log shadow map rather than a persistent scope
// chain searched from innermost outward; both satisfy the same
// shadow-preservation property, and this follows the undo-log shape.
type VariableTable struct {
	globals map[string]*Variable

	locals map[string]*Variable   // name -> currently active local binding
	hidden map[string][]*Variable // name -> stack of bindings shadowed by an inner scope

	scopes        []scopeFrame
	scopeDepth    int
	currentOffset int
	maxOffset     int
}

func NewVariableTable() *VariableTable {
	return &VariableTable{
		globals: make(map[string]*Variable),
		locals:  make(map[string]*Variable),
		hidden:  make(map[string][]*Variable),
	}
}

// DeclareGlobal registers a permanent global. Redeclaration fails.
func (vt *VariableTable) DeclareGlobal(name string, typ *types.Type) (*Variable, error) {
	if _, ok := vt.globals[name]; ok {
		return nil, fmt.Errorf("global variable %q already declared", name)
	}
	v := &Variable{Name: name, Type: typ}
	vt.globals[name] = v
	return v, nil
}

// EnterFunction resets all local-scope state for the start of a new
// function body. Locals and the shadow map do not carry over between
// functions (§4.3: "the table is cleared for the next function").
func (vt *VariableTable) EnterFunction() {
	vt.locals = make(map[string]*Variable)
	vt.hidden = make(map[string][]*Variable)
	vt.scopes = nil
	vt.scopeDepth = 0
	vt.currentOffset = 0
	vt.maxOffset = 0
}

// EnterBlock pushes a new lexical scope.
func (vt *VariableTable) EnterBlock() {
	vt.scopeDepth++
	vt.scopes = append(vt.scopes, scopeFrame{})
}

// ExitBlock pops the innermost lexical scope, removing every local
// declared within it and restoring any binding it shadowed (§4.2's
// shadowing data structure).
func (vt *VariableTable) ExitBlock() {
	if len(vt.scopes) == 0 {
		return
	}
	frame := vt.scopes[len(vt.scopes)-1]
	vt.scopes = vt.scopes[:len(vt.scopes)-1]

	for _, name := range frame.names {
		delete(vt.locals, name)
		if stack := vt.hidden[name]; len(stack) > 0 {
			restored := stack[len(stack)-1]
			vt.hidden[name] = stack[:len(stack)-1]
			vt.locals[name] = restored
		}
	}
	vt.scopeDepth--
}

// DeclareLocal declares a new local in the current (innermost) scope.
// Declaring the same name twice in the same scope fails; declaring a name
// that shadows an outer scope's binding succeeds, pushing the outer
// binding onto the hidden-locals stack so ExitBlock can restore it.
func (vt *VariableTable) DeclareLocal(name string, typ *types.Type) (*Variable, error) {
	if len(vt.scopes) == 0 {
		return nil, fmt.Errorf("DeclareLocal called outside any scope")
	}
	if existing, ok := vt.locals[name]; ok && existing.ScopeDepth == vt.scopeDepth {
		return nil, fmt.Errorf("variable %q already declared in this scope", name)
	}

	if existing, ok := vt.locals[name]; ok {
		vt.hidden[name] = append(vt.hidden[name], existing)
	}

	size := typ.Size()
	vt.currentOffset = alignOffset(vt.currentOffset, size)
	vt.currentOffset += size
	if vt.currentOffset > vt.maxOffset {
		vt.maxOffset = vt.currentOffset
	}

	v := &Variable{
		Name:        name,
		Type:        typ,
		IsLocal:     true,
		ScopeDepth:  vt.scopeDepth,
		FrameOffset: vt.currentOffset,
	}
	vt.locals[name] = v

	top := &vt.scopes[len(vt.scopes)-1]
	top.names = append(top.names, name)

	return v, nil
}

// Lookup resolves name against the innermost active local binding first,
// falling back to globals.
func (vt *VariableTable) Lookup(name string) (*Variable, bool) {
	if v, ok := vt.locals[name]; ok {
		return v, true
	}
	if v, ok := vt.globals[name]; ok {
		return v, true
	}
	return nil, false
}

// FrameSize returns the high-water mark of assigned frame offsets, plus
// the 8 bytes the prologue's saved rbp always occupies — the value §4.4's
// prologue uses directly as F (§8: "frame_size ≥ every assigned offset
// plus the variable's size, rounded per the alignment rule").
func (vt *VariableTable) FrameSize() int {
	return vt.maxOffset + 8
}

// alignOffset implements §4.2's alignment rule: before placing an object
// of size s at offset, if offset%8 != 0 and placing it would straddle an
// 8-byte boundary, bump offset up to the next multiple of 8 first.
func alignOffset(offset, size int) int {
	if offset%8 != 0 && offset/8 != (offset+size)/8 {
		return alignUp(offset, 8)
	}
	return offset
}

func alignUp(n, align int) int {
	if n%align == 0 {
		return n
	}
	return n + (align - n%align)
}
