package types

import (
	"testing"

	"sable/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner(nil)
	b := in.Builtins()
	if b.Unit == NoTypeID || b.Bool == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	unit, _ := in.Lookup(b.Unit)
	if unit.Kind != KindUnit {
		t.Fatalf("expected unit kind, got %v", unit.Kind)
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner(nil)
	elem := in.Builtins().String
	arr1 := in.Intern(MakeArray(elem, ArrayDynamicLength))
	arr2 := in.Intern(MakeArray(elem, ArrayDynamicLength))
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
}

func TestReferenceMutabilityAffectsIdentity(t *testing.T) {
	in := NewInterner(nil)
	elem := in.Builtins().Int
	mut := in.Intern(MakeReference(elem, true))
	imm := in.Intern(MakeReference(elem, false))
	if mut == imm {
		t.Fatalf("mutable and immutable references must differ")
	}
}

func TestStructInstancesDistinctByTypeArgs(t *testing.T) {
	strings := source.NewInterner()
	in := NewInterner(strings)
	name := strings.Intern("Box")

	intBox := in.RegisterStruct(name, source.Span{}, []TypeID{in.Builtins().Int})
	strBox := in.RegisterStruct(name, source.Span{}, []TypeID{in.Builtins().String})
	if intBox == strBox {
		t.Fatal("instances with different type args must get distinct TypeIDs")
	}

	found, ok := in.FindStruct(name, []TypeID{in.Builtins().Int})
	if !ok || found != intBox {
		t.Fatalf("FindStruct = (%d, %v), want (%d, true)", found, ok, intBox)
	}
}

func TestExportImportRoundtrip(t *testing.T) {
	strings := source.NewInterner()
	in := NewInterner(strings)
	boxName := strings.Intern("Box")
	box := in.RegisterStruct(boxName, source.Span{}, []TypeID{in.Builtins().Int})
	ref := in.Intern(MakeReference(box, false))

	restored := Import(in.Export(), strings)
	if restored.Len() != in.Len() {
		t.Fatalf("restored Len = %d, want %d", restored.Len(), in.Len())
	}
	tt, ok := restored.Lookup(ref)
	if !ok || tt.Kind != KindReference || tt.Elem != box {
		t.Fatalf("reference descriptor lost in roundtrip: %+v ok=%v", tt, ok)
	}
	info, ok := restored.StructInfo(box)
	if !ok || info.Name != boxName {
		t.Fatal("struct info lost in roundtrip")
	}
	// Interning the same descriptor again must not allocate a new ID.
	if again := restored.Intern(MakeReference(box, false)); again != ref {
		t.Fatalf("restored interner re-allocated ID %d for existing type %d", again, ref)
	}
}
