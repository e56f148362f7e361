package contentstream

// Class groups operators by how the mangler treats them.
type Class int

const (
	// ClassOther operators pass through unmodified.
	ClassOther Class = iota
	// ClassFontChange selects the active font (Tf).
	ClassFontChange
	// ClassTextShow operators paint text (Tj, TJ, ', ").
	ClassTextShow
	// ClassPathConstruction operators build vector paths (m, l, c, v, y, re).
	ClassPathConstruction
	// ClassClipping operators intersect the clipping path (W, W*).
	ClassClipping
	// ClassBlockBegin opens an inline image block (BI).
	ClassBlockBegin
	// ClassBlockEnd closes an inline image block (EI).
	ClassBlockEnd
)

// operators is the content-stream vocabulary from the PDF 1.7 operator
// summary. Words not in this table are treated as still-growing operands.
var operators = map[string]struct{}{
	"b":   {}, // close, fill, and stroke path, nonzero winding
	"B":   {}, // fill and stroke path, nonzero winding
	"b*":  {}, // close, fill, and stroke path, even-odd
	"B*":  {}, // fill and stroke path, even-odd
	"BDC": {}, // begin marked-content sequence with property list
	"BI":  {}, // begin inline image object
	"BMC": {}, // begin marked-content sequence
	"BT":  {}, // begin text object
	"BX":  {}, // begin compatibility section
	"c":   {}, // curve segment, two control points
	"cm":  {}, // concatenate matrix to CTM
	"CS":  {}, // set stroking color space
	"cs":  {}, // set nonstroking color space
	"d":   {}, // set line dash pattern
	"d0":  {}, // set glyph width, Type 3 font
	"d1":  {}, // set glyph width and bounding box, Type 3 font
	"Do":  {}, // invoke named XObject
	"DP":  {}, // define marked-content point with property list
	"EI":  {}, // end inline image object
	"EMC": {}, // end marked-content sequence
	"ET":  {}, // end text object
	"EX":  {}, // end compatibility section
	"f":   {}, // fill path, nonzero winding
	"F":   {}, // fill path, nonzero winding (obsolete)
	"f*":  {}, // fill path, even-odd
	"G":   {}, // set stroking gray level
	"g":   {}, // set nonstroking gray level
	"gs":  {}, // set parameters from graphics state dictionary
	"h":   {}, // close subpath
	"i":   {}, // set flatness tolerance
	"ID":  {}, // begin inline image data
	"j":   {}, // set line join style
	"J":   {}, // set line cap style
	"K":   {}, // set stroking CMYK color
	"k":   {}, // set nonstroking CMYK color
	"l":   {}, // line segment
	"m":   {}, // begin new subpath
	"M":   {}, // set miter limit
	"MP":  {}, // define marked-content point
	"n":   {}, // end path without filling or stroking
	"q":   {}, // save graphics state
	"Q":   {}, // restore graphics state
	"re":  {}, // rectangle
	"RG":  {}, // set stroking RGB color
	"rg":  {}, // set nonstroking RGB color
	"ri":  {}, // set color rendering intent
	"s":   {}, // close and stroke path
	"S":   {}, // stroke path
	"SC":  {}, // set stroking color
	"sc":  {}, // set nonstroking color
	"SCN": {}, // set stroking color, ICC and special spaces
	"scn": {}, // set nonstroking color, ICC and special spaces
	"sh":  {}, // paint shading pattern
	"T*":  {}, // move to start of next text line
	"Tc":  {}, // set character spacing
	"Td":  {}, // move text position
	"TD":  {}, // move text position and set leading
	"Tf":  {}, // set text font and size
	"Tj":  {}, // show text
	"TJ":  {}, // show text with individual glyph positioning
	"TL":  {}, // set text leading
	"Tm":  {}, // set text and text line matrix
	"Tr":  {}, // set text rendering mode
	"Ts":  {}, // set text rise
	"Tw":  {}, // set word spacing
	"Tz":  {}, // set horizontal text scaling
	"v":   {}, // curve segment, initial point replicated
	"w":   {}, // set line width
	"W":   {}, // set clipping path, nonzero winding
	"W*":  {}, // set clipping path, even-odd
	"y":   {}, // curve segment, final point replicated
	"'":   {}, // move to next line and show text
	"\"":  {}, // set word and character spacing, move to next line, show text
}

// IsOperator reports whether word is a recognized operator mnemonic.
func IsOperator(word []byte) bool {
	_, ok := operators[string(word)]
	return ok
}

// Classify returns the mangling class of an operator.
func Classify(op string) Class {
	switch op {
	case "Tf":
		return ClassFontChange
	case "Tj", "TJ", "'", "\"":
		return ClassTextShow
	case "m", "l", "c", "v", "y", "re":
		return ClassPathConstruction
	case "W", "W*":
		return ClassClipping
	case "BI":
		return ClassBlockBegin
	case "EI":
		return ClassBlockEnd
	}
	return ClassOther
}

// IsPathStart reports whether op begins a new subpath. Clipping rollback
// rewinds to the most recent such token.
func IsPathStart(op string) bool {
	return op == "m" || op == "re"
}
