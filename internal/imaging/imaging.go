// Package imaging synthesizes the flat grey placeholder rasters that replace
// image content, and encodes them for the two stream filters placeholders are
// written with: DCTDecode (JPEG) for images that were JPEG-coded, FlateDecode
// for everything else.
package imaging

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"golang.org/x/image/ccitt"
)

// maxPixels bounds placeholder allocation. A corrupt /Width or /Height can
// declare absurd dimensions; beyond this the image is left alone.
const maxPixels = 64 << 20

// Placeholder returns a width*height 8-bit grayscale buffer filled with a
// single value.
func Placeholder(width, height int, value byte) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid placeholder dimensions %dx%d", width, height)
	}
	if width > maxPixels/height {
		return nil, fmt.Errorf("placeholder dimensions %dx%d exceed pixel cap", width, height)
	}
	buf := make([]byte, width*height)
	for i := range buf {
		buf[i] = value
	}
	return buf, nil
}

// EncodeJPEG compresses an 8-bit grayscale buffer as baseline JPEG.
func EncodeJPEG(pixels []byte, width, height int) ([]byte, error) {
	if len(pixels) != width*height {
		return nil, fmt.Errorf("pixel buffer is %d bytes, expected %d", len(pixels), width*height)
	}
	img := &image.Gray{
		Pix:    pixels,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeFlate compresses a buffer with zlib, the FlateDecode wire format.
func EncodeFlate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("flate encode failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// ProbeCCITT decodes Group 3/4 fax data against its declared dimensions and
// reports whether they hold. K selects the coding scheme as in the stream's
// decode parameters: negative for Group 4, otherwise Group 3.
func ProbeCCITT(data []byte, columns, rows, k int, blackIs1 bool) error {
	if columns <= 0 {
		columns = 1728
	}
	sf := ccitt.Group3
	if k < 0 {
		sf = ccitt.Group4
	}
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}

	// PDF writes MSB-first; BlackIs1 maps onto Invert.
	opts := &ccitt.Options{Invert: blackIs1}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts)
	if _, err := io.Copy(io.Discard, r); err != nil {
		return fmt.Errorf("ccitt probe failed: %w", err)
	}
	return nil
}
