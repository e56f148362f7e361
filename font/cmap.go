package font

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
)

// ErrShortRange reports a bfrange whose destination array holds fewer
// entries than the range spans. The CMap is structurally inconsistent and
// the parse is abandoned; callers fall back to the baseline pool.
var ErrShortRange = errors.New("bfrange destination array shorter than range")

// rangeCap bounds how many codes a single bfrange may enumerate. Ranges
// beyond it are skipped with no mapping rather than exhausting memory on
// a corrupt <00000000> <FFFFFFFF> pair.
const rangeCap = 1 << 16

// CMap maps fixed-width character codes to Unicode text and back. The
// inverse direction re-encodes substituted text into codes the font still
// renders; text with no inverse entry keeps its original code.
type CMap struct {
	Forward map[uint32]string
	Inverse map[string]uint32

	// CodeBytes is the source code width in bytes, taken from the first
	// source code seen (ToUnicode CMaps use one width throughout).
	CodeBytes int
}

// ParseCMap parses the bfchar and bfrange sections of a ToUnicode CMap
// stream. Malformed individual entries are skipped; a short bfrange
// destination array fails the whole parse with ErrShortRange.
func ParseCMap(data []byte) (*CMap, error) {
	cm := &CMap{
		Forward: make(map[uint32]string),
		Inverse: make(map[string]uint32),
	}
	content := string(data)

	if err := cm.parseSections(content, "beginbfchar", "endbfchar", cm.parseBfChar); err != nil {
		return nil, err
	}
	if err := cm.parseSections(content, "beginbfrange", "endbfrange", cm.parseBfRange); err != nil {
		return nil, err
	}

	if cm.CodeBytes == 0 {
		cm.CodeBytes = 2
	}
	return cm, nil
}

// parseSections locates every begin..end section and hands its body to
// parse.
func (cm *CMap) parseSections(content, begin, end string, parse func(string) error) error {
	start := 0
	for {
		b := strings.Index(content[start:], begin)
		if b == -1 {
			return nil
		}
		b += start + len(begin)

		e := strings.Index(content[b:], end)
		if e == -1 {
			return nil
		}
		e += b

		if err := parse(content[b:e]); err != nil {
			return err
		}
		start = e + len(end)
	}
}

// parseBfChar consumes (source, destination) hex pairs.
func (cm *CMap) parseBfChar(section string) error {
	items := scanCMapItems(section)
	for i := 0; i+1 < len(items); i += 2 {
		src, dst := items[i], items[i+1]
		if src.kind != itemHex || dst.kind != itemHex {
			continue
		}
		cm.addMapping(src.hex, dst.hex)
	}
	return nil
}

// parseBfRange consumes (start, end, destination) triples where the
// destination is a single hex value applied incrementally across the
// range, or an array with one destination per code.
func (cm *CMap) parseBfRange(section string) error {
	items := scanCMapItems(section)
	i := 0
	for i+2 < len(items) {
		start, end := items[i], items[i+1]
		if start.kind != itemHex || end.kind != itemHex {
			i++
			continue
		}
		lo, ok1 := hexToCode(start.hex)
		hi, ok2 := hexToCode(end.hex)
		if !ok1 || !ok2 || hi < lo {
			i += 3
			continue
		}
		cm.noteCodeWidth(start.hex)

		dst := items[i+2]
		switch dst.kind {
		case itemHex:
			if hi-lo < rangeCap {
				cm.addIncrementRange(lo, hi, dst.hex)
			}
			i += 3

		case itemArrayOpen:
			j := i + 3
			code := lo
			for ; j < len(items) && items[j].kind != itemArrayClose; j++ {
				if items[j].kind != itemHex || code > hi {
					continue
				}
				cm.addCodeMapping(code, items[j].hex)
				code++
			}
			if code <= hi {
				return fmt.Errorf("codes %04X-%04X unmapped: %w", code, hi, ErrShortRange)
			}
			if j < len(items) {
				j++ // ]
			}
			i = j

		default:
			i += 3
		}
	}
	return nil
}

// addMapping records src -> text and its inverse from raw hex fields.
func (cm *CMap) addMapping(srcHex, dstHex string) {
	code, ok := hexToCode(srcHex)
	if !ok {
		return
	}
	cm.noteCodeWidth(srcHex)
	cm.addCodeMapping(code, dstHex)
}

func (cm *CMap) addCodeMapping(code uint32, dstHex string) {
	text, ok := hexToText(dstHex)
	if !ok || text == "" {
		return
	}
	cm.Forward[code] = text
	cm.Inverse[text] = code
}

// addIncrementRange maps lo..hi by incrementing the destination's final
// UTF-16 code unit, the standard single-destination bfrange behavior.
func (cm *CMap) addIncrementRange(lo, hi uint32, dstHex string) {
	units, ok := hexToUnits(dstHex)
	if !ok || len(units) == 0 {
		return
	}
	last := units[len(units)-1]
	for code := lo; code <= hi; code++ {
		u := make([]uint16, len(units))
		copy(u, units)
		u[len(u)-1] = last + uint16(code-lo)
		text := string(utf16.Decode(u))
		cm.Forward[code] = text
		cm.Inverse[text] = code
	}
}

func (cm *CMap) noteCodeWidth(srcHex string) {
	if cm.CodeBytes != 0 {
		return
	}
	w := (len(srcHex) + 1) / 2
	if w < 1 {
		w = 1
	}
	if w > 4 {
		w = 4
	}
	cm.CodeBytes = w
}

// Decode returns the text a code maps to.
func (cm *CMap) Decode(code uint32) (string, bool) {
	text, ok := cm.Forward[code]
	return text, ok
}

// Encode returns the code producing text, for re-encoding substituted
// characters.
func (cm *CMap) Encode(text string) (uint32, bool) {
	code, ok := cm.Inverse[text]
	return code, ok
}

// Glyphs returns every rune the map can produce, ordered by source code,
// for pool building.
func (cm *CMap) Glyphs() []rune {
	codes := make([]uint32, 0, len(cm.Forward))
	for code := range cm.Forward {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var glyphs []rune
	for _, code := range codes {
		glyphs = append(glyphs, []rune(cm.Forward[code])...)
	}
	return glyphs
}

// cmapItem is one lexical item of a CMap section body.
type cmapItem struct {
	kind int
	hex  string
}

const (
	itemHex = iota
	itemArrayOpen
	itemArrayClose
)

// scanCMapItems splits a section body into hex strings and array
// brackets. Hex strings need no surrounding whitespace: <0F><10> is two
// items. Barewords (operator noise) are dropped.
func scanCMapItems(section string) []cmapItem {
	var items []cmapItem
	for i := 0; i < len(section); i++ {
		switch c := section[i]; {
		case c == '<':
			j := strings.IndexByte(section[i+1:], '>')
			if j == -1 {
				return items
			}
			items = append(items, cmapItem{kind: itemHex, hex: section[i+1 : i+1+j]})
			i += j + 1
		case c == '[':
			items = append(items, cmapItem{kind: itemArrayOpen})
		case c == ']':
			items = append(items, cmapItem{kind: itemArrayClose})
		}
	}
	return items
}

// hexToCode parses a source code hex field (1-4 bytes) into its integer
// value.
func hexToCode(h string) (uint32, bool) {
	b, ok := hexBytes(h)
	if !ok || len(b) == 0 || len(b) > 4 {
		return 0, false
	}
	var v uint32
	for _, x := range b {
		v = v<<8 | uint32(x)
	}
	return v, true
}

// hexToText decodes a destination hex field as UTF-16BE text.
func hexToText(h string) (string, bool) {
	units, ok := hexToUnits(h)
	if !ok {
		return "", false
	}
	return string(utf16.Decode(units)), true
}

// hexToUnits decodes a destination hex field into UTF-16 code units,
// skipping a leading byte-order mark.
func hexToUnits(h string) ([]uint16, bool) {
	b, ok := hexBytes(h)
	if !ok || len(b) < 2 {
		if len(b) == 1 {
			return []uint16{uint16(b[0])}, true
		}
		return nil, false
	}
	if b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return units, true
}

// hexBytes decodes hex digits, padding an odd final digit with zero as
// the PDF syntax prescribes.
func hexBytes(h string) ([]byte, bool) {
	h = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || r == 0 {
			return -1
		}
		return r
	}, h)
	if len(h)%2 != 0 {
		h += "0"
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, false
	}
	return b, true
}
