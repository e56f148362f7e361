package mangler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cfcurtis/pdf-mangler/contentstream"
	"github.com/cfcurtis/pdf-mangler/font"
)

// mangleText rewrites the string payloads of one show-text token in place,
// preserving byte width, case, and numeric type. Kerning numerals in TJ
// arrays and the spacing operands of " are left alone: only the string
// spans the lexer recorded are touched.
func (d *Document) mangleText(st *mangleState, tok contentstream.Token) {
	for _, span := range tok.Strings {
		payload := tok.Operands[span.Start:span.End]
		if span.Hex {
			d.mangleHexSpan(st, payload)
		} else {
			d.mangleLiteralSpan(st, payload)
		}
	}
}

// mangleLiteralSpan substitutes literal string bytes one by one, assuming
// one byte per character. A backslash and its successor byte are copied
// verbatim so escape sequences and balanced parens survive.
func (d *Document) mangleLiteralSpan(st *mangleState, span []byte) {
	for i := 0; i < len(span); i++ {
		if span[i] == '\\' {
			i++
			continue
		}
		span[i] = d.substituteByte(st, span[i])
	}
}

// substituteByte replaces one text byte from the active font's pools,
// warning when a character with a mangleable category has no pool to draw
// from. Pass-through categories stay silent.
func (d *Document) substituteByte(st *mangleState, b byte) byte {
	nb, ok := st.font.pool.SubstituteByte(b, d.rng)
	if !ok {
		if cat := font.Category(rune(b)); !font.IsPassCategory(cat) {
			d.warnf(st.page, 0, "passing through %q with unhandled category %s", b, cat)
		}
	}
	return nb
}

// mangleHexSpan rewrites the digits of a hex string span in place. With a
// code map the digits are grouped into fixed-width codes and each code's
// text is substituted and encoded back at the same width; without one the
// span is treated as one-byte codes. Whitespace inside the span keeps its
// position, and a partial trailing code is padded for lookup but only its
// present digits are rewritten.
func (d *Document) mangleHexSpan(st *mangleState, span []byte) {
	var pos []int
	for i, b := range span {
		switch {
		case isHexDigit(b):
			pos = append(pos, i)
		case isPDFWhitespace(b):
		default:
			d.warnf(st.page, 0, "hex string with stray byte %q kept", b)
			return
		}
	}
	if len(pos) == 0 {
		return
	}

	codeBytes := 1
	if st.font.cm != nil {
		codeBytes = st.font.cm.CodeBytes
	}
	digits := 2 * codeBytes

	for g := 0; g < len(pos); g += digits {
		end := g + digits
		if end > len(pos) {
			end = len(pos)
		}
		var hexCode strings.Builder
		for _, p := range pos[g:end] {
			hexCode.WriteByte(span[p])
		}
		padded := hexCode.String() + strings.Repeat("0", digits-(end-g))
		v, err := strconv.ParseUint(padded, 16, 32)
		if err != nil {
			d.warnf(st.page, 0, "hex code %q kept: %v", padded, err)
			continue
		}

		newCode, ok := d.substituteCode(st, uint32(v))
		if !ok {
			continue
		}
		out := fmt.Sprintf("%0*X", digits, newCode)
		for i, p := range pos[g:end] {
			span[p] = out[i]
		}
	}
}

// substituteCode maps one fixed-width code to replacement text and back.
// The second result is false when the original code should be kept: no
// forward mapping, nothing substitutable in its text, or no code for the
// substituted text.
func (d *Document) substituteCode(st *mangleState, code uint32) (uint32, bool) {
	cm := st.font.cm
	if cm == nil {
		nb, ok := st.font.pool.SubstituteByte(byte(code), d.rng)
		if !ok {
			return 0, false
		}
		return uint32(nb), true
	}

	text, ok := cm.Decode(code)
	if !ok {
		d.warnf(st.page, 0, "code %0*X missing from the font's unicode map", cm.CodeBytes*2, code)
		return 0, false
	}

	out := make([]rune, 0, len(text))
	changed := false
	for _, r := range text {
		sub, ok := st.font.pool.Substitute(r, d.rng)
		if !ok {
			if cat := font.Category(r); !font.IsPassCategory(cat) {
				d.warnf(st.page, 0, "passing through %q with unhandled category %s", r, cat)
			}
		}
		changed = changed || ok
		out = append(out, sub)
	}
	if !changed {
		return 0, false
	}

	newCode, ok := cm.Encode(string(out))
	if !ok {
		d.warnf(st.page, 0, "substituted text %q has no code; original kept", string(out))
		return 0, false
	}
	return newCode, true
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// isPDFWhitespace reports PDF whitespace: null, tab, LF, FF, CR, space.
func isPDFWhitespace(b byte) bool {
	return b == 0 || b == '\t' || b == '\n' || b == '\f' || b == '\r' || b == ' '
}
