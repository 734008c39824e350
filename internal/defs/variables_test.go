package defs

import (
	"testing"

	"github.com/cwbudde/minic/internal/types"
)

func setup() (*VariableTable, *types.Registry) {
	return NewVariableTable(), types.NewRegistry()
}

func TestGlobalDeclareAndRedeclareFails(t *testing.T) {
	vt, reg := setup()
	intT, _ := reg.Primitive("int")

	if _, err := vt.DeclareGlobal("counter", intT); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := vt.DeclareGlobal("counter", intT); err == nil {
		t.Error("expected redeclaring a global to fail")
	}
}

func TestLocalScopeEnterExitBalance(t *testing.T) {
	vt, reg := setup()
	intT, _ := reg.Primitive("int")

	vt.EnterFunction()
	vt.EnterBlock()
	if _, err := vt.DeclareLocal("x", intT); err != nil {
		t.Fatal(err)
	}
	if _, ok := vt.Lookup("x"); !ok {
		t.Error("expected x to be visible inside its scope")
	}
	vt.ExitBlock()
	if _, ok := vt.Lookup("x"); ok {
		t.Error("expected x to be gone after its scope exits")
	}
}

func TestShadowPreservation(t *testing.T) {
	vt, reg := setup()
	intT, _ := reg.Primitive("int")
	longT, _ := reg.Primitive("long")

	vt.EnterFunction()
	vt.EnterBlock()
	outer, err := vt.DeclareLocal("n", intT)
	if err != nil {
		t.Fatal(err)
	}

	vt.EnterBlock()
	inner, err := vt.DeclareLocal("n", longT)
	if err != nil {
		t.Fatalf("shadowing declaration should succeed: %v", err)
	}
	got, ok := vt.Lookup("n")
	if !ok || got != inner {
		t.Error("expected lookup to resolve to the inner shadowing binding")
	}
	vt.ExitBlock()

	// After exiting the scope, lookup(name) returns the same binding it
	// returned immediately before entering the scope (§8 Shadow preservation).
	got, ok = vt.Lookup("n")
	if !ok || got != outer {
		t.Error("expected lookup to resolve back to the outer binding after exit")
	}
}

func TestRedeclareInSameScopeFails(t *testing.T) {
	vt, reg := setup()
	intT, _ := reg.Primitive("int")

	vt.EnterFunction()
	vt.EnterBlock()
	if _, err := vt.DeclareLocal("x", intT); err != nil {
		t.Fatal(err)
	}
	if _, err := vt.DeclareLocal("x", intT); err == nil {
		t.Error("expected redeclaring x in the same scope to fail")
	}
}

func TestFrameOffsetAlignmentAndNoStraddle(t *testing.T) {
	vt, reg := setup()
	charT, _ := reg.Primitive("char")
	longT, _ := reg.Primitive("long")

	vt.EnterFunction()
	vt.EnterBlock()
	c, err := vt.DeclareLocal("c", charT)
	if err != nil {
		t.Fatal(err)
	}
	if c.FrameOffset != 1 {
		t.Errorf("c.FrameOffset = %d, want 1", c.FrameOffset)
	}

	// long cannot be placed starting at offset 1 (would straddle the first
	// 8-byte boundary), so it is bumped to start at 8, ending at 16.
	n, err := vt.DeclareLocal("n", longT)
	if err != nil {
		t.Fatal(err)
	}
	if n.FrameOffset != 16 {
		t.Errorf("n.FrameOffset = %d, want 16", n.FrameOffset)
	}
	if vt.FrameSize() != 24 {
		t.Errorf("FrameSize() = %d, want 24", vt.FrameSize())
	}
}

func TestLocalsClearedBetweenFunctions(t *testing.T) {
	vt, reg := setup()
	intT, _ := reg.Primitive("int")

	vt.EnterFunction()
	vt.EnterBlock()
	vt.DeclareLocal("x", intT)

	vt.EnterFunction()
	if _, ok := vt.Lookup("x"); ok {
		t.Error("expected locals from a previous function to be cleared")
	}
	if vt.FrameSize() != 8 {
		t.Errorf("fresh function FrameSize() = %d, want 8", vt.FrameSize())
	}
}

func TestLocalShadowsGlobal(t *testing.T) {
	vt, reg := setup()
	intT, _ := reg.Primitive("int")
	longT, _ := reg.Primitive("long")

	vt.DeclareGlobal("g", intT)
	vt.EnterFunction()
	vt.EnterBlock()
	local, err := vt.DeclareLocal("g", longT)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := vt.Lookup("g")
	if !ok || got != local {
		t.Error("expected local to shadow the global of the same name")
	}
	vt.ExitBlock()
	got, ok = vt.Lookup("g")
	if !ok || got.IsLocal {
		t.Error("expected lookup to fall back to the global after the local scope exits")
	}
}
