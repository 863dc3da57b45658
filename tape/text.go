package tape

import (
	"io"
	"unicode/utf8"
)

// TextReader tokenizes the text encoding.
type TextReader struct {
	buf []byte
	pos int
}

// NewTextReader creates a tokenizer over buf. The buffer is not copied.
func NewTextReader(buf []byte) *TextReader {
	return &TextReader{buf: buf}
}

// Offset reports the number of bytes consumed so far.
func (r *TextReader) Offset() int64 { return int64(r.pos) }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// isDelim reports whether b terminates a bare scalar.
func isDelim(b byte) bool {
	return isSpace(b) || b == '{' || b == '}' || b == '=' || b == '"' || b == '#'
}

// skipFiller advances past whitespace and comments.
func (r *TextReader) skipFiller() {
	for r.pos < len(r.buf) {
		b := r.buf[r.pos]
		switch {
		case isSpace(b):
			r.pos++
		case b == '#':
			for r.pos < len(r.buf) && r.buf[r.pos] != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

// Next consumes and returns the next token. It returns io.EOF at the end of
// the buffer.
func (r *TextReader) Next() (Token, error) {
	r.skipFiller()
	if r.pos >= len(r.buf) {
		return Token{}, io.EOF
	}

	start := r.pos
	switch b := r.buf[r.pos]; b {
	case '{':
		r.pos++
		return Token{Kind: KindOpen, Offset: int64(start)}, nil
	case '}':
		r.pos++
		return Token{Kind: KindClose, Offset: int64(start)}, nil
	case '=':
		r.pos++
		return Token{Kind: KindAssign, Offset: int64(start)}, nil
	case '"':
		return r.scanQuoted()
	default:
		return r.scanBare(), nil
	}
}

// scanQuoted reads a quoted scalar. The format has no escape sequences: the
// next '"' always terminates the scalar.
func (r *TextReader) scanQuoted() (Token, error) {
	start := r.pos
	r.pos++ // opening quote
	for r.pos < len(r.buf) {
		if r.buf[r.pos] == '"' {
			text := r.buf[start+1 : r.pos]
			r.pos++
			if !utf8.Valid(text) {
				return Token{}, &Error{Offset: int64(start), Reason: "malformed UTF-8 in quoted scalar"}
			}
			return Token{Kind: KindScalar, Offset: int64(start), text: text, quoted: true}, nil
		}
		r.pos++
	}
	return Token{}, &Error{Offset: int64(start), Reason: "unterminated quoted scalar"}
}

func (r *TextReader) scanBare() Token {
	start := r.pos
	for r.pos < len(r.buf) && !isDelim(r.buf[r.pos]) {
		r.pos++
	}
	return Token{Kind: KindScalar, Offset: int64(start), text: r.buf[start:r.pos]}
}

// SkipContainer scans past the Close matching an already-consumed Open. The
// scan is structural: scalars are stepped over byte-wise, never materialized.
func (r *TextReader) SkipContainer() error {
	depth := 1
	inQuote := false
	inComment := false
	for r.pos < len(r.buf) {
		b := r.buf[r.pos]
		r.pos++
		switch {
		case inQuote:
			if b == '"' {
				inQuote = false
			}
		case inComment:
			if b == '\n' {
				inComment = false
			}
		case b == '"':
			inQuote = true
		case b == '#':
			inComment = true
		case b == '{':
			depth++
		case b == '}':
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return &Error{Offset: int64(r.pos), Reason: "truncated container"}
}
