// Package contentstream provides byte-level lexing of PDF content streams
// for in-place rewriting.
//
// Content streams contain the instructions for rendering page content:
// text display, path construction, images, and graphics state changes.
// Unlike a rendering parser, the lexer here never builds an object tree.
// It splits the raw bytes into (operand bytes, operator) spans with no
// byte loss, so that a caller can rewrite operand payloads in place and
// emit a stream of exactly the original length.
//
// # Tokens
//
// Each Token covers a contiguous slice of the input:
//
//	lex := contentstream.NewLexer(data)
//	for {
//	    tok, ok := lex.Next()
//	    if !ok {
//	        break
//	    }
//	    // tok.Operands aliases data; edits write through.
//	}
//
// Concatenating every token's Operands and Operator bytes, in order,
// reproduces the input. Because Operands aliases the input buffer,
// same-length in-place edits of operand payloads preserve this property
// automatically.
//
// # Side channels
//
// While scanning, the lexer records the numerals and string operands it
// passes so callers need not re-parse operand bytes:
//
//   - NumeralField: value and byte extent of one decimal numeral.
//   - StringSpan: byte extent of one literal or hex string payload.
//
// Offsets are relative to the owning Token's Operands slice.
//
// # Scanner states
//
// The scanner runs in three states. Comment bytes (% to end of line) and
// literal string bytes (balanced parentheses, backslash escapes honored)
// are carried in operand spans but never inspected for operator words.
// Everything else is split at whitespace and delimiter boundaries and
// checked against the operator vocabulary.
package contentstream
