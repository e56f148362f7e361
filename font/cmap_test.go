package font

import (
	"errors"
	"testing"
)

// TestParseCMapBfChar tests single-code mappings inside a realistic
// ToUnicode wrapper
func TestParseCMapBfChar(t *testing.T) {
	data := []byte(`/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0041> <0041>
<0042> <0043>
<0100> <20AC>
endbfchar
endcmap
CMapName currentdict /CMap defineresource pop
end
end`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		code uint32
		want string
	}{
		{0x0041, "A"},
		{0x0042, "C"},
		{0x0100, "€"},
	}
	for _, tt := range tests {
		got, ok := cm.Decode(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Decode(%#04x): expected %q, got %q (%v)", tt.code, tt.want, got, ok)
		}
	}

	if cm.CodeBytes != 2 {
		t.Errorf("expected 2-byte codes, got %d", cm.CodeBytes)
	}
	if _, ok := cm.Decode(0x0043); ok {
		t.Errorf("expected no mapping for 0x0043")
	}
}

// TestParseCMapBfRangeIncrement tests the single-destination range form,
// which increments the final UTF-16 unit across the range
func TestParseCMapBfRangeIncrement(t *testing.T) {
	data := []byte(`1 beginbfrange
<0000> <0019> <0061>
endbfrange`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		code uint32
		want string
	}{
		{0x0000, "a"},
		{0x0005, "f"},
		{0x0019, "z"},
	}
	for _, tt := range tests {
		got, ok := cm.Decode(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Decode(%#04x): expected %q, got %q (%v)", tt.code, tt.want, got, ok)
		}
	}
}

// TestParseCMapBfRangeIncrementMultiUnit tests that a multi-unit
// destination keeps its leading units and increments only the last
func TestParseCMapBfRangeIncrementMultiUnit(t *testing.T) {
	data := []byte(`1 beginbfrange
<0041> <0042> <D835DC00>
endbfrange`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, ok := cm.Decode(0x0041); !ok || got != "\U0001D400" {
		t.Errorf("Decode(0x0041): expected U+1D400, got %q (%v)", got, ok)
	}
	if got, ok := cm.Decode(0x0042); !ok || got != "\U0001D401" {
		t.Errorf("Decode(0x0042): expected U+1D401, got %q (%v)", got, ok)
	}
}

// TestParseCMapBfRangeArray tests the array-destination range form with
// multi-character ligature targets
func TestParseCMapBfRangeArray(t *testing.T) {
	data := []byte(`1 beginbfrange
<005F> <0061> [<00660066> <00660069> <00660066006C>]
endbfrange`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		code uint32
		want string
	}{
		{0x005F, "ff"},
		{0x0060, "fi"},
		{0x0061, "ffl"},
	}
	for _, tt := range tests {
		got, ok := cm.Decode(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Decode(%#04x): expected %q, got %q (%v)", tt.code, tt.want, got, ok)
		}
	}
}

// TestParseCMapShortRangeArray tests that an array with fewer entries
// than the range spans fails the parse
func TestParseCMapShortRangeArray(t *testing.T) {
	data := []byte(`1 beginbfrange
<0000> <0002> [<0041> <0042>]
endbfrange`)

	_, err := ParseCMap(data)
	if err == nil {
		t.Fatalf("expected an error for a short destination array")
	}
	if !errors.Is(err, ErrShortRange) {
		t.Errorf("expected ErrShortRange, got %v", err)
	}
}

// TestParseCMapHugeRangeSkipped tests that an implausibly wide range is
// dropped instead of enumerated
func TestParseCMapHugeRangeSkipped(t *testing.T) {
	data := []byte(`1 beginbfrange
<00000000> <00020000> <0041>
endbfrange`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cm.Forward) != 0 {
		t.Errorf("expected no mappings, got %d", len(cm.Forward))
	}
	if cm.CodeBytes != 4 {
		t.Errorf("expected 4-byte codes, got %d", cm.CodeBytes)
	}
}

// TestParseCMapNoWhitespace tests hex items packed without separators
func TestParseCMapNoWhitespace(t *testing.T) {
	data := []byte(`2 beginbfchar
<03><0064><04><0065>
endbfchar`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, ok := cm.Decode(0x03); !ok || got != "d" {
		t.Errorf("Decode(0x03): expected %q, got %q (%v)", "d", got, ok)
	}
	if got, ok := cm.Decode(0x04); !ok || got != "e" {
		t.Errorf("Decode(0x04): expected %q, got %q (%v)", "e", got, ok)
	}
	if cm.CodeBytes != 1 {
		t.Errorf("expected 1-byte codes, got %d", cm.CodeBytes)
	}
}

// TestParseCMapSurrogatesAndBOM tests surrogate-pair decoding and
// byte-order-mark stripping in destinations
func TestParseCMapSurrogatesAndBOM(t *testing.T) {
	data := []byte(`2 beginbfchar
<0001> <D835DC00>
<0002> <FEFF0041>
endbfchar`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, ok := cm.Decode(0x0001); !ok || got != "\U0001D400" {
		t.Errorf("Decode(0x0001): expected U+1D400, got %q (%v)", got, ok)
	}
	if got, ok := cm.Decode(0x0002); !ok || got != "A" {
		t.Errorf("Decode(0x0002): expected %q, got %q (%v)", "A", got, ok)
	}
}

// TestParseCMapMultipleSections tests that repeated bfchar and bfrange
// blocks all contribute mappings
func TestParseCMapMultipleSections(t *testing.T) {
	data := []byte(`1 beginbfchar
<0010> <0058>
endbfchar
1 beginbfrange
<0020> <0022> <0061>
endbfrange
1 beginbfchar
<0011> <0059>
endbfchar`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		code uint32
		want string
	}{
		{0x0010, "X"},
		{0x0011, "Y"},
		{0x0020, "a"},
		{0x0021, "b"},
		{0x0022, "c"},
	}
	for _, tt := range tests {
		got, ok := cm.Decode(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Decode(%#04x): expected %q, got %q (%v)", tt.code, tt.want, got, ok)
		}
	}
}

// TestEncodeInverse tests re-encoding, including last-wins for texts
// reachable from multiple codes
func TestEncodeInverse(t *testing.T) {
	data := []byte(`2 beginbfchar
<0041> <0041>
<0042> <0041>
endbfchar`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if code, ok := cm.Encode("A"); !ok || code != 0x0042 {
		t.Errorf("Encode(A): expected 0x0042, got %#04x (%v)", code, ok)
	}
	if _, ok := cm.Encode("Z"); ok {
		t.Errorf("expected no code for unmapped text")
	}
}

// TestGlyphsOrderedByCode tests that pool input comes out in source-code
// order regardless of entry order
func TestGlyphsOrderedByCode(t *testing.T) {
	data := []byte(`3 beginbfchar
<0002> <0063>
<0000> <0061>
<0001> <0062>
endbfchar`)

	cm, err := ParseCMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := string(cm.Glyphs()); got != "abc" {
		t.Errorf("expected glyphs 'abc', got %q", got)
	}
}

// TestParseCMapNoSections tests that a stream with no mapping sections
// yields an empty, usable map
func TestParseCMapNoSections(t *testing.T) {
	cm, err := ParseCMap([]byte("%!PS-Adobe-3.0 Resource-CMap"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cm.Forward) != 0 {
		t.Errorf("expected no mappings, got %d", len(cm.Forward))
	}
	if cm.CodeBytes != 2 {
		t.Errorf("expected default 2-byte codes, got %d", cm.CodeBytes)
	}
	if _, ok := cm.Decode(0x41); ok {
		t.Errorf("expected Decode to miss on an empty map")
	}
}
