package targets

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"omibyte.io/stackc/ir"
	"omibyte.io/stackc/lower"
)

func TestFindByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		err      error
	}{
		{"jvm", "jvm", nil},
		{"JVM", "jvm", nil},
		{"jasmin", "jvm", nil},
		{"wasm", "", ErrTargetNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target, err := All().FindByName(tc.name)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected error %v, got %v", tc.err, err)
			}
			if target.Name != tc.expected {
				t.Errorf("expected target %q, got %q", tc.expected, target.Name)
			}
		})
	}
}

func TestMnemonics(t *testing.T) {
	target, err := All().FindByName("jvm")
	if err != nil {
		t.Fatal(err)
	}

	expected := lower.Mnemonics{
		Goto:      "goto",
		IfNonZero: "ifne",
		IfZero:    "ifeq",
		Pop:       "pop",
		Dispatch:  "lookupswitch",
		Zero: map[ir.Repr]string{
			ir.ReprInt:    "iconst_0",
			ir.ReprLong:   "lconst_0",
			ir.ReprFloat:  "fconst_0",
			ir.ReprDouble: "dconst_0",
			ir.ReprRef:    "aconst_null",
		},
	}
	if diff := cmp.Diff(expected, target.Mnemonics()); diff != "" {
		t.Errorf("mnemonics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"aconst_null", "athrow"}, target.Control.Unreachable); diff != "" {
		t.Errorf("unreachable sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestTypes(t *testing.T) {
	target, err := All().FindByName("jvm")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		repr       ir.Repr
		descriptor string
		slots      int
		prefix     string
	}{
		{ir.ReprInt, "I", 1, "i"},
		{ir.ReprLong, "J", 2, "l"},
		{ir.ReprFloat, "F", 1, "f"},
		{ir.ReprDouble, "D", 2, "d"},
		{ir.ReprRef, "Ljava/lang/Object;", 1, "a"},
		{ir.ReprVector, "J", 2, "l"},
		{ir.ReprVoid, "V", 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.repr.String(), func(t *testing.T) {
			info, err := target.Type(tc.repr)
			if err != nil {
				t.Fatal(err)
			}
			if info.Descriptor != tc.descriptor || info.Slots != tc.slots || info.Prefix != tc.prefix {
				t.Errorf("expected %s/%d/%s, got %s/%d/%s",
					tc.descriptor, tc.slots, tc.prefix, info.Descriptor, info.Slots, info.Prefix)
			}
		})
	}
}

func TestIntConstants(t *testing.T) {
	target, err := All().FindByName("jvm")
	if err != nil {
		t.Fatal(err)
	}
	info, err := target.Type(ir.ReprInt)
	if err != nil {
		t.Fatal(err)
	}

	if mnemonic, ok := info.Constant("-1"); !ok || mnemonic != "iconst_m1" {
		t.Errorf("expected iconst_m1, got %q", mnemonic)
	}
	if _, ok := info.Constant("6"); ok {
		t.Error("expected no dedicated instruction for 6")
	}

	tests := []struct {
		value    int64
		expected string
	}{
		{100, "bipush"},
		{-128, "bipush"},
		{1000, "sipush"},
		{-32768, "sipush"},
		{40000, ""},
	}
	for _, tc := range tests {
		if got, _ := info.PushFor(tc.value); got != tc.expected {
			t.Errorf("%d: expected %q, got %q", tc.value, tc.expected, got)
		}
	}

	if !info.Supports(ir.OpUShr) || info.Supports(ir.OpAndNot) {
		t.Error("unexpected supported operation set")
	}
	if diff := cmp.Diff([]string{"sipush 255", "iand"}, info.Narrow["uint8"]); diff != "" {
		t.Errorf("uint8 narrowing mismatch (-want +got):\n%s", diff)
	}
}
