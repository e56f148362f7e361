package contentstream

// Token is one (operand bytes, operator) span of a content stream.
// Operands aliases the lexer's input buffer: writing into it mutates the
// stream directly. The final token of a stream may carry an empty Operator
// when trailing bytes follow the last recognized mnemonic.
type Token struct {
	Operands []byte
	Operator string

	// Numerals are the decimal numerals found in Operands, in order.
	Numerals []NumeralField

	// Strings are the literal and hex string payloads found in Operands,
	// in order.
	Strings []StringSpan
}

// NumeralField locates one decimal numeral inside a token's operand bytes.
// Start and End are offsets into Token.Operands; any rewrite must produce
// exactly End-Start bytes.
type NumeralField struct {
	Value      float64
	Start, End int
}

// Width returns the byte width the numeral occupies in the stream.
func (f NumeralField) Width() int {
	return f.End - f.Start
}

// StringSpan locates one string operand payload inside a token's operand
// bytes. Start and End bound the bytes between the delimiters: for
// (text) the text, for <A0FF> the hex digits. Hex distinguishes the two.
type StringSpan struct {
	Start, End int
	Hex        bool
}
