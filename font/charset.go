package font

import (
	"fmt"
	"strconv"
	"strings"
)

// MapCharSet resolves a /CharSet glyph-name list ("/a/s/d/colon/uni0041")
// into a categorized substitution pool. Unresolvable names are dropped
// with a warning; they never fail the resolution.
func MapCharSet(charset string) (*CategoryMap, []string) {
	glyphs, warnings := charSetGlyphs(charset)
	return Categorize(glyphs), warnings
}

// charSetGlyphs maps each name in the set to its Unicode value. Ligature
// alias names containing '_' (f_f, f_f_i) are skipped silently: their
// constituents appear in the set on their own.
func charSetGlyphs(charset string) ([]rune, []string) {
	var glyphs []rune
	var warnings []string
	for _, name := range strings.Split(charset, "/") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if s, ok := glyphNames[name]; ok {
			glyphs = append(glyphs, []rune(s)...)
			continue
		}
		if strings.Contains(name, "_") {
			continue
		}
		if rs, ok := decodeUniName(name); ok {
			glyphs = append(glyphs, rs...)
			continue
		}
		warnings = append(warnings, fmt.Sprintf("unknown glyph name %q", name))
	}
	return glyphs, warnings
}

// decodeUniName decodes the algorithmic glyph-name forms: "uni" followed
// by one or more four-digit hex groups, or "u" followed by four to six
// hex digits.
func decodeUniName(name string) ([]rune, bool) {
	if strings.HasPrefix(name, "uni") && len(name) > 3 && (len(name)-3)%4 == 0 {
		var out []rune
		for i := 3; i < len(name); i += 4 {
			v, err := strconv.ParseUint(name[i:i+4], 16, 32)
			if err != nil {
				return nil, false
			}
			out = append(out, rune(v))
		}
		return out, true
	}
	if strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil || v > 0x10FFFF {
			return nil, false
		}
		return []rune{rune(v)}, true
	}
	return nil, false
}
