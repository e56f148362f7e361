package font

import (
	"math/rand"
	"sort"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// passCats are the general-category groups that are never substituted:
// punctuation, marks, separators, control/other, symbols.
const passCats = "PMZCS"

// asciiDefault is the hardwired "unsurprising" alphabet. Pool Default
// subsets are intersections with these sets.
var asciiDefault = map[string][]rune{
	"Lu": []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
	"Ll": []rune("abcdefghijklmnopqrstuvwxyz"),
	"Nd": []rune("0123456789"),
}

// catNames holds the two-letter Unicode general category names in sorted
// order, so category lookup is deterministic.
var catNames []string

func init() {
	for name := range unicode.Categories {
		if len(name) == 2 {
			catNames = append(catNames, name)
		}
	}
	sort.Strings(catNames)
}

// Category returns the two-letter Unicode general category of r, or ""
// when r belongs to none (unassigned code points).
func Category(r rune) string {
	for _, name := range catNames {
		if unicode.Is(unicode.Categories[name], r) {
			return name
		}
	}
	return ""
}

// IsPassCategory reports whether characters of the given category pass
// through mangling untouched.
func IsPassCategory(cat string) bool {
	if cat == "" {
		return true
	}
	for i := 0; i < len(passCats); i++ {
		if cat[0] == passCats[i] {
			return true
		}
	}
	return false
}

// CategoryMap is a font's substitution pool: for each non-pass-through
// general category, the characters the font covers, in stable order, plus
// the ASCII Default subset used to bias picks toward mundane output.
type CategoryMap struct {
	Pools   map[string][]rune
	Default map[string][]rune
}

// Categorize groups glyphs by general category, dropping pass-through
// categories and duplicates, and computes the Default subsets.
func Categorize(glyphs []rune) *CategoryMap {
	m := &CategoryMap{
		Pools:   make(map[string][]rune),
		Default: make(map[string][]rune),
	}
	seen := make(map[rune]bool)
	for _, r := range glyphs {
		if seen[r] {
			continue
		}
		seen[r] = true
		cat := Category(r)
		if IsPassCategory(cat) {
			continue
		}
		m.Pools[cat] = append(m.Pools[cat], r)
	}
	m.rebuildDefault()
	return m
}

// rebuildDefault recomputes the Default subsets from the pools.
func (m *CategoryMap) rebuildDefault() {
	m.Default = make(map[string][]rune)
	for cat, pool := range m.Pools {
		base, ok := asciiDefault[cat]
		if !ok {
			continue
		}
		var isect []rune
		for _, r := range pool {
			if containsRune(base, r) {
				isect = append(isect, r)
			}
		}
		if len(isect) > 0 {
			m.Default[cat] = isect
		}
	}
}

// MapNumericRange builds a pool from a /FirstChar../LastChar code range,
// treating each code point in the range as a one-character glyph.
func MapNumericRange(first, last int) *CategoryMap {
	if last < first {
		first, last = last, first
	}
	glyphs := make([]rune, 0, last-first+1)
	for c := first; c <= last; c++ {
		glyphs = append(glyphs, rune(c))
	}
	return Categorize(glyphs)
}

// Substitute returns a same-category replacement for r. The second result
// is false when r passes through unchanged: its category is pass-through,
// or no pool covers it. When r sits in the pool's Default subset the pick
// is drawn from the subset, otherwise from the full category pool, falling
// back to the ASCII default for categories the pool lacks.
func (m *CategoryMap) Substitute(r rune, rng *rand.Rand) (rune, bool) {
	cat := Category(r)
	if IsPassCategory(cat) {
		return r, false
	}
	if pool, ok := m.Pools[cat]; ok {
		if def, ok := m.Default[cat]; ok && containsRune(def, r) {
			return def[rng.Intn(len(def))], true
		}
		return pool[rng.Intn(len(pool))], true
	}
	if base, ok := asciiDefault[cat]; ok {
		return base[rng.Intn(len(base))], true
	}
	return r, false
}

// SubstituteByte is Substitute constrained to single-byte output, for
// rewriting literal string bytes in place. Candidates above 0xFF are
// excluded; when that empties the pool the ASCII default serves instead.
func (m *CategoryMap) SubstituteByte(b byte, rng *rand.Rand) (byte, bool) {
	r := rune(b)
	cat := Category(r)
	if IsPassCategory(cat) {
		return b, false
	}
	if pool, ok := m.Pools[cat]; ok {
		if def, ok := m.Default[cat]; ok && containsRune(def, r) {
			return byte(def[rng.Intn(len(def))]), true
		}
		if narrow := narrowPool(pool); len(narrow) > 0 {
			return byte(narrow[rng.Intn(len(narrow))]), true
		}
	}
	if base, ok := asciiDefault[cat]; ok {
		return byte(base[rng.Intn(len(base))]), true
	}
	return b, false
}

// ReplaceString substitutes every character of s, used for metadata
// strings where byte length need not be preserved. Output is normalized
// to NFC so combining sequences introduced by pool glyphs render stably.
func (m *CategoryMap) ReplaceString(s string, rng *rand.Rand) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		sub, _ := m.Substitute(r, rng)
		out = append(out, sub)
	}
	return norm.NFC.String(string(out))
}

// narrowPool filters a pool to runes representable as one byte.
func narrowPool(pool []rune) []rune {
	var out []rune
	for _, r := range pool {
		if r <= 0xFF {
			out = append(out, r)
		}
	}
	return out
}

func containsRune(set []rune, r rune) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}
