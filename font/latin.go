package font

// latinExtras are the Adobe Latin-1 glyphs outside the ISO 8859-1 range:
// typographic punctuation, the fi/fl ligatures, and the handful of
// extended letters Western fonts ship by default.
var latinExtras = []rune{
	'Œ', 'œ', // OE oe
	'Š', 'š', // Scaron scaron
	'Ÿ',           // Ydieresis
	'Ž', 'ž', // Zcaron zcaron
	'ƒ',                               // florin
	'ˆ', 'ˇ', '˘', '˙', // accents
	'˚', '˛', '˜', '˝',
	'–', '—', // dashes
	'‘', '’', '‚', '“', '”', '„', // quotes
	'†', '‡', '•', // daggers, bullet
	'…', '‰', // ellipsis, perthousand
	'‹', '›', // guilsingl
	'⁄', '€', '™', '−', // fraction, Euro, trademark, minus
	'ﬁ', 'ﬂ', // fi fl
}

var latinPool *CategoryMap

func init() {
	glyphs := make([]rune, 0, 256)
	for r := rune(0x21); r <= 0x7E; r++ {
		glyphs = append(glyphs, r)
	}
	for r := rune(0xA1); r <= 0xFF; r++ {
		glyphs = append(glyphs, r)
	}
	glyphs = append(glyphs, latinExtras...)
	latinPool = Categorize(glyphs)
}

// Latin returns the baseline Adobe Latin-1 substitution pool, the fallback
// for fonts carrying no usable metadata. The returned map is shared and
// must not be mutated.
func Latin() *CategoryMap {
	return latinPool
}
