package defs

import (
	"testing"

	"github.com/cwbudde/minic/internal/types"
)

func TestDeclareAndLookupFunction(t *testing.T) {
	reg := types.NewRegistry()
	intT, _ := reg.Primitive("int")
	ft := NewFunctionTable()

	decl := &FunctionDecl{ArgTypes: []*types.Type{intT}, HasArgTypes: true, ReturnType: intT}
	if err := ft.Declare("add_one", decl); err != nil {
		t.Fatal(err)
	}
	got, ok := ft.Lookup("add_one")
	if !ok || !got.Equal(decl) {
		t.Error("expected lookup to return the declared signature")
	}
}

func TestRedeclareWithMatchingSignatureOK(t *testing.T) {
	reg := types.NewRegistry()
	intT, _ := reg.Primitive("int")
	ft := NewFunctionTable()

	decl := &FunctionDecl{ArgTypes: []*types.Type{intT}, HasArgTypes: true, ReturnType: intT}
	if err := ft.Declare("f", decl); err != nil {
		t.Fatal(err)
	}
	if err := ft.Declare("f", &FunctionDecl{ArgTypes: []*types.Type{intT}, HasArgTypes: true, ReturnType: intT}); err != nil {
		t.Errorf("matching redeclaration should be accepted: %v", err)
	}
}

func TestRedeclareWithConflictingSignatureFails(t *testing.T) {
	reg := types.NewRegistry()
	intT, _ := reg.Primitive("int")
	longT, _ := reg.Primitive("long")
	ft := NewFunctionTable()

	ft.Declare("f", &FunctionDecl{ArgTypes: []*types.Type{intT}, HasArgTypes: true, ReturnType: intT})
	if err := ft.Declare("f", &FunctionDecl{ArgTypes: []*types.Type{longT}, HasArgTypes: true, ReturnType: intT}); err == nil {
		t.Error("expected conflicting redeclaration to fail")
	}
}

func TestCanImplementRequiresDeclaration(t *testing.T) {
	ft := NewFunctionTable()
	if err := ft.CanImplement("mystery"); err == nil {
		t.Error("expected implementing an undeclared function to fail")
	}
}

func TestSecondImplementationRejected(t *testing.T) {
	reg := types.NewRegistry()
	intT, _ := reg.Primitive("int")
	ft := NewFunctionTable()

	ft.Declare("f", &FunctionDecl{ReturnType: intT})
	if err := ft.CanImplement("f"); err != nil {
		t.Fatal(err)
	}
	ft.MarkImplemented("f")
	if err := ft.CanImplement("f"); err == nil {
		t.Error("expected a second implementation of f to be rejected")
	}
}
