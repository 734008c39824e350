package types

import "testing"

func TestPrimitivesRegisteredAtInit(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name string
		kind Kind
		size int
	}{
		{"void", Void, 0},
		{"char", I8, 1},
		{"short", I16, 2},
		{"int", I32, 4},
		{"long", I64, 8},
		{"unsigned char", U8, 1},
		{"unsigned short", U16, 2},
		{"unsigned int", U32, 4},
		{"unsigned long", U64, 8},
		{"float", F32, 4},
		{"double", F64, 8},
	}
	for _, tt := range tests {
		typ, ok := r.Primitive(tt.name)
		if !ok {
			t.Fatalf("primitive %q not registered", tt.name)
		}
		if typ.Kind() != tt.kind || typ.Size() != tt.size {
			t.Errorf("%q: kind=%v size=%d, want kind=%v size=%d", tt.name, typ.Kind(), typ.Size(), tt.kind, tt.size)
		}
	}
	if _, ok := r.Primitive("nonsense"); ok {
		t.Error("expected lookup of unregistered name to fail")
	}
}

func TestPointerInterning(t *testing.T) {
	r := NewRegistry()
	intT, _ := r.Primitive("int")
	p1 := r.Pointer(intT)
	p2 := r.Pointer(intT)
	if p1 != p2 {
		t.Error("Pointer(int) called twice should return the same handle")
	}
	if p1.Size() != 8 {
		t.Errorf("pointer size = %d, want 8", p1.Size())
	}
	pp := r.Pointer(p1)
	if pp.Elem() != p1 {
		t.Error("pointer-to-pointer should chain through the same elem handle")
	}
}

func TestArrayInterningAndSize(t *testing.T) {
	r := NewRegistry()
	longT, _ := r.Primitive("long")
	a1 := r.Array(3, longT)
	a2 := r.Array(3, longT)
	if a1 != a2 {
		t.Error("Array(3, long) called twice should return the same handle")
	}
	if a1.Size() != 24 {
		t.Errorf("array size = %d, want 24", a1.Size())
	}
	a0 := r.Array(0, longT)
	if a0.Size() != 0 {
		t.Errorf("zero-length array size = %d, want 0", a0.Size())
	}
}

func TestArrayDecaysToPointer(t *testing.T) {
	r := NewRegistry()
	longT, _ := r.Primitive("long")
	arr := r.Array(2, longT)
	decayed := arr.Decayed(r)
	if !decayed.IsPointer() || decayed.Elem() != longT {
		t.Errorf("decayed array = %v, want pointer to long", decayed)
	}
	if longT.Decayed(r) != longT {
		t.Error("non-array Decayed should be a no-op")
	}
}

func TestStructNominalEquality(t *testing.T) {
	r := NewRegistry()
	intT, _ := r.Primitive("int")
	longT, _ := r.Primitive("long")

	s1, err := r.Struct("Point", []Member{{Name: "x", Type: intT}, {Name: "y", Type: longT}})
	if err != nil {
		t.Fatal(err)
	}
	// Re-declaring "Point" with an entirely different member list still
	// returns the first handle: struct equality is nominal, by name only.
	s2, err := r.Struct("Point", []Member{{Name: "z", Type: longT}})
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Error("re-registering the same struct name should return the same handle")
	}
	if !s1.Equal(s2) {
		t.Error("structs with the same name should be Equal")
	}

	other, _ := r.Struct("Other", []Member{{Name: "x", Type: intT}})
	if s1.Equal(other) {
		t.Error("structs with different names must not be Equal")
	}
}

func TestStructMemberAlignment(t *testing.T) {
	r := NewRegistry()
	charT, _ := r.Primitive("char")
	longT, _ := r.Primitive("long")

	// char at offset 0 (size 1); long cannot be placed at offset 1 because
	// [1,9) straddles the [0,8) boundary, so it is bumped to offset 8.
	s, err := r.Struct("Mixed", []Member{{Name: "c", Type: charT}, {Name: "n", Type: longT}})
	if err != nil {
		t.Fatal(err)
	}
	members := s.Members()
	if members[0].Offset != 0 {
		t.Errorf("c offset = %d, want 0", members[0].Offset)
	}
	if members[1].Offset != 8 {
		t.Errorf("n offset = %d, want 8", members[1].Offset)
	}
	if s.Size() != 16 {
		t.Errorf("struct size = %d, want 16 (rounded up to 8-byte multiple)", s.Size())
	}
}

func TestFunctionTypeEquality(t *testing.T) {
	r := NewRegistry()
	intT, _ := r.Primitive("int")
	longT, _ := r.Primitive("long")

	f1 := r.Function([]*Type{intT, longT}, true, intT)
	f2 := r.Function([]*Type{intT, longT}, true, intT)
	if f1 != f2 {
		t.Error("identical function signatures should intern to the same handle")
	}

	f3 := r.Function([]*Type{longT, intT}, true, intT)
	if f1.Equal(f3) {
		t.Error("different parameter order must not be equal")
	}

	unspecified := r.Function(nil, false, intT)
	if f1.Equal(unspecified) {
		t.Error("an unspecified-args function type must not equal a concrete-args one")
	}
}
