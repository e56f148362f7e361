package contentstream

import "strconv"

// Lexer scans content-stream bytes into Tokens. The input slice is never
// copied: emitted tokens alias it, and the scanner holds no other state
// between calls than its position, so a stream can be lexed and rewritten
// in a single pass.
type Lexer struct {
	data []byte
	pos  int // next byte to examine
	sta  int // first operand byte of the token being accumulated
	done bool

	// pending side channels, absolute offsets until emission
	numerals []NumeralField
	strings  []StringSpan
}

// NewLexer returns a Lexer over data.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Next returns the next token. The second result is false once the input
// is exhausted. The last token of a stream carries an empty Operator when
// bytes remain after the final recognized mnemonic.
func (l *Lexer) Next() (Token, bool) {
	if l.done {
		return Token{}, false
	}

	wordStart := l.pos
	name := false // current word follows a '/', so it is a name

	for l.pos < len(l.data) {
		b := l.data[l.pos]

		if !isWhitespace(b) && !isDelimiter(b) {
			l.pos++
			continue
		}

		// Word boundary: the bytes since wordStart may be an operator.
		if !name && IsOperator(l.data[wordStart:l.pos]) {
			return l.emit(wordStart, l.pos), true
		}
		l.noteNumeral(wordStart, name)
		name = false

		switch {
		case isWhitespace(b):
			l.pos++
		case b == '%':
			l.skipComment()
		case b == '(':
			l.scanLiteral()
		case b == '<':
			l.scanHexOrDict()
		case b == '/':
			l.pos++
			name = true
		default:
			// ) > [ ] { } are plain structural delimiters here.
			l.pos++
		}
		wordStart = l.pos
	}

	// End of input: the final word may still be an operator.
	if !name && wordStart < l.pos && IsOperator(l.data[wordStart:l.pos]) {
		tok := l.emit(wordStart, l.pos)
		l.done = true
		return tok, true
	}
	l.noteNumeral(wordStart, name)

	l.done = true
	if l.sta >= len(l.data) {
		return Token{}, false
	}
	// Operator-less tail.
	tok := l.emit(len(l.data), len(l.data))
	return tok, true
}

// Tokens scans the remaining input and returns all tokens.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

// emit builds the token whose operator occupies [opStart, opEnd), rebases
// the pending side channels onto the operand slice, and advances the
// accumulator past the operator.
func (l *Lexer) emit(opStart, opEnd int) Token {
	tok := Token{
		Operands: l.data[l.sta:opStart],
		Operator: string(l.data[opStart:opEnd]),
	}
	if len(l.numerals) > 0 {
		tok.Numerals = make([]NumeralField, len(l.numerals))
		for i, n := range l.numerals {
			n.Start -= l.sta
			n.End -= l.sta
			tok.Numerals[i] = n
		}
		l.numerals = l.numerals[:0]
	}
	if len(l.strings) > 0 {
		tok.Strings = make([]StringSpan, len(l.strings))
		for i, s := range l.strings {
			s.Start -= l.sta
			s.End -= l.sta
			tok.Strings[i] = s
		}
		l.strings = l.strings[:0]
	}
	l.sta = opEnd
	l.pos = opEnd
	return tok
}

// noteNumeral records the word ending at the current position when it
// parses as a decimal numeral. Name words never count: /1.2 is a name.
func (l *Lexer) noteNumeral(wordStart int, name bool) {
	if name || wordStart >= l.pos {
		return
	}
	word := l.data[wordStart:l.pos]
	digits := false
	for _, c := range word {
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '+' || c == '-' || c == '.':
		default:
			return
		}
	}
	if !digits {
		return
	}
	v, err := strconv.ParseFloat(string(word), 64)
	if err != nil {
		return
	}
	l.numerals = append(l.numerals, NumeralField{Value: v, Start: wordStart, End: l.pos})
}

// skipComment advances past a comment body. The line terminator is left
// for the main loop, which folds it into the operand span as whitespace.
func (l *Lexer) skipComment() {
	l.pos++ // %
	for l.pos < len(l.data) {
		if b := l.data[l.pos]; b == '\r' || b == '\n' {
			return
		}
		l.pos++
	}
}

// scanLiteral advances past a (string), honoring backslash escapes and
// balanced nested parentheses, and records the payload span. An
// unterminated literal runs to end of input.
func (l *Lexer) scanLiteral() {
	l.pos++ // (
	start := l.pos
	depth := 1
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				l.strings = append(l.strings, StringSpan{Start: start, End: l.pos})
				l.pos++ // )
				return
			}
		}
		l.pos++
	}
	if l.pos > len(l.data) {
		l.pos = len(l.data)
	}
	l.strings = append(l.strings, StringSpan{Start: start, End: l.pos})
}

// scanHexOrDict distinguishes a << dictionary open from a <hex> string.
// Dictionary delimiters need no tracking; hex payload spans are recorded.
func (l *Lexer) scanHexOrDict() {
	if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
		l.pos += 2
		return
	}
	l.pos++ // <
	start := l.pos
	for l.pos < len(l.data) {
		if l.data[l.pos] == '>' {
			l.strings = append(l.strings, StringSpan{Start: start, End: l.pos, Hex: true})
			l.pos++ // >
			return
		}
		l.pos++
	}
	l.strings = append(l.strings, StringSpan{Start: start, End: l.pos, Hex: true})
}

// isWhitespace reports PDF whitespace: null, tab, LF, FF, CR, space.
func isWhitespace(b byte) bool {
	return b == 0 || b == '\t' || b == '\n' || b == '\f' || b == '\r' || b == ' '
}

// isDelimiter reports PDF structural delimiters.
func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}
