package mangler

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// emptyContext is enough for dereferencing direct objects.
func emptyContext() *model.Context {
	return &model.Context{XRefTable: &model.XRefTable{}}
}

func TestEncodeString(t *testing.T) {
	t.Run("ascii literal", func(t *testing.T) {
		o := encodeString("Layer (1)")
		lit, ok := o.(types.StringLiteral)
		if !ok {
			t.Fatalf("encoded as %T, want a string literal", o)
		}
		s, err := types.StringLiteralToString(lit)
		if err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if s != "Layer (1)" {
			t.Errorf("round trip gave %q", s)
		}
	})

	t.Run("non-ascii hex", func(t *testing.T) {
		o := encodeString("Résumé")
		hl, ok := o.(types.HexLiteral)
		if !ok {
			t.Fatalf("encoded as %T, want a hex literal", o)
		}
		b, err := hl.Bytes()
		if err != nil {
			t.Fatalf("decoding hex: %v", err)
		}
		if len(b) < 2 || b[0] != 0xfe || b[1] != 0xff {
			t.Fatalf("missing byte order mark: % x", b)
		}
		s, err := types.HexLiteralToString(hl)
		if err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if s != "Résumé" {
			t.Errorf("round trip gave %q", s)
		}
	})
}

func TestMangleStringObject(t *testing.T) {
	d := testDoc(15)

	repl, ok := d.mangleStringObject(types.StringLiteral("Payroll"))
	if !ok {
		t.Fatal("string literal not handled")
	}
	lit, ok := repl.(types.StringLiteral)
	if !ok {
		t.Fatalf("replacement is %T", repl)
	}
	s, err := types.StringLiteralToString(lit)
	if err != nil {
		t.Fatalf("decoding replacement: %v", err)
	}
	if s == "Payroll" {
		t.Error("string survived")
	}
	if len(s) != len("Payroll") {
		t.Errorf("replacement %q changed length", s)
	}

	hex := types.NewHexLiteral([]byte{0xfe, 0xff, 0x00, 'P'})
	repl, ok = d.mangleStringObject(hex)
	if !ok {
		t.Fatal("hex literal not handled")
	}
	if _, ok := repl.(types.StringLiteral); !ok {
		t.Errorf("single basic letter re-encoded as %T", repl)
	}

	if _, ok := d.mangleStringObject(types.Integer(4)); ok {
		t.Error("integer treated as a string")
	}
}

// Annotation-style entries that are not strings must never be replaced:
// /CA holds opacity, /Dest holds a destination array.
func TestReplaceStringEntryTypes(t *testing.T) {
	d := testDoc(8)
	d.ctx = emptyContext()

	dict := types.Dict{
		"CA":    types.Float(0.5),
		"Dest":  types.Array{types.Integer(3), types.Name("Fit")},
		"Title": types.StringLiteral("Loan Agreement"),
	}
	for _, key := range []string{"CA", "Dest", "Title", "Missing"} {
		d.replaceStringEntry(dict, key)
	}

	if f, ok := dict["CA"].(types.Float); !ok || f != types.Float(0.5) {
		t.Errorf("opacity rewritten: %v", dict["CA"])
	}
	if _, ok := dict["Dest"].(types.Array); !ok {
		t.Errorf("destination rewritten: %v", dict["Dest"])
	}
	lit, ok := dict["Title"].(types.StringLiteral)
	if !ok {
		t.Fatalf("title is %T", dict["Title"])
	}
	if s, _ := types.StringLiteralToString(lit); s == "Loan Agreement" {
		t.Error("title survived")
	}
}

func TestMangleOCGOrderNested(t *testing.T) {
	d := testDoc(44)
	d.ctx = emptyContext()

	order := types.Array{
		types.StringLiteral("Layers"),
		types.Array{types.StringLiteral("Watermarks")},
	}
	d.mangleOCGOrder(order, map[int]bool{})

	top, ok := order[0].(types.StringLiteral)
	if !ok {
		t.Fatalf("top label is %T", order[0])
	}
	if s, _ := types.StringLiteralToString(top); s == "Layers" {
		t.Error("top label survived")
	}
	inner, ok := order[1].(types.Array)
	if !ok {
		t.Fatalf("nested array is %T", order[1])
	}
	nested, ok := inner[0].(types.StringLiteral)
	if !ok {
		t.Fatalf("nested label is %T", inner[0])
	}
	if s, _ := types.StringLiteralToString(nested); s == "Watermarks" {
		t.Error("nested label survived")
	}
}
