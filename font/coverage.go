package font

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// FilterCoverage returns a copy of the pool restricted to characters the
// embedded TrueType program actually covers. Substituting a character the
// subsetted font lacks would render as .notdef boxes, so candidates that
// shape to glyph 0 are dropped. The receiver is not modified; fontData is
// the raw /FontFile2 program.
func (m *CategoryMap) FilterCoverage(fontData []byte) (*CategoryMap, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}

	shaper := &shaping.HarfbuzzShaper{}
	covered := func(r rune) bool {
		out := shaper.Shape(shaping.Input{
			Text:      []rune{r},
			RunStart:  0,
			RunEnd:    1,
			Direction: di.DirectionLTR,
			Face:      face,
			Size:      fixed.Int26_6(64),
			Script:    language.Latin,
			Language:  language.DefaultLanguage(),
		})
		if len(out.Glyphs) == 0 {
			return false
		}
		for _, g := range out.Glyphs {
			if g.GlyphID == 0 {
				return false
			}
		}
		return true
	}

	filtered := &CategoryMap{Pools: make(map[string][]rune)}
	for cat, pool := range m.Pools {
		var kept []rune
		for _, r := range pool {
			if covered(r) {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			filtered.Pools[cat] = kept
		}
	}
	filtered.rebuildDefault()
	return filtered, nil
}

// Empty reports whether the pool has no candidates in any category, which
// a caller treats as "keep the unfiltered pool".
func (m *CategoryMap) Empty() bool {
	return len(m.Pools) == 0
}
