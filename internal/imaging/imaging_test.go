package imaging

import (
	"bytes"
	"compress/zlib"
	"image/jpeg"
	"io"
	"testing"
)

// TestPlaceholder tests flat buffer synthesis
func TestPlaceholder(t *testing.T) {
	buf, err := Placeholder(10, 4, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf) != 40 {
		t.Fatalf("expected 40 bytes, got %d", len(buf))
	}
	for i, b := range buf {
		if b != 150 {
			t.Fatalf("byte %d: expected 150, got %d", i, b)
		}
	}
}

// TestPlaceholderBadDimensions tests rejection of corrupt dimensions
func TestPlaceholderBadDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"negative height", 10, -1},
		{"pixel cap", 1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Placeholder(tt.w, tt.h, 128); err == nil {
				t.Errorf("expected an error for %dx%d", tt.w, tt.h)
			}
		})
	}
}

// TestEncodeJPEG tests that the placeholder survives a JPEG round trip
// close to its grey value
func TestEncodeJPEG(t *testing.T) {
	pixels, err := Placeholder(16, 16, 137)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enc, err := EncodeJPEG(pixels, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("expected 16x16, got %dx%d", b.Dx(), b.Dy())
	}

	// Baseline JPEG of a flat field stays within a couple of levels.
	r, _, _, _ := img.At(8, 8).RGBA()
	got := int(r >> 8)
	if got < 132 || got > 142 {
		t.Errorf("expected grey near 137, got %d", got)
	}
}

// TestEncodeJPEGSizeMismatch tests buffer length validation
func TestEncodeJPEGSizeMismatch(t *testing.T) {
	if _, err := EncodeJPEG(make([]byte, 10), 16, 16); err == nil {
		t.Errorf("expected an error for a short pixel buffer")
	}
}

// TestEncodeFlate tests the zlib round trip
func TestEncodeFlate(t *testing.T) {
	in := bytes.Repeat([]byte{0x7F}, 512)
	enc, err := EncodeFlate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enc) >= len(in) {
		t.Errorf("expected compression of a flat buffer, got %d bytes from %d", len(enc), len(in))
	}

	r, err := zlib.NewReader(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("output is not zlib: %v", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decompression failed: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Errorf("round trip mismatch")
	}
}

// TestProbeCCITT tests that garbage fax data fails the probe
func TestProbeCCITT(t *testing.T) {
	if err := ProbeCCITT([]byte("not fax data at all"), 100, 100, -1, false); err == nil {
		t.Errorf("expected an error for invalid Group 4 data")
	}
}
