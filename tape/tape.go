// Package tape turns raw save-file bytes into a flat token sequence.
//
// Clausewitz-style saves come in two encodings that share one structural
// vocabulary:
//   - Text: whitespace-separated scalars with `{`, `}` and `=` structure,
//     optional quoting, and `#` line comments.
//   - Binary: little-endian u16 token ids with typed scalar payloads and
//     dictionary ids standing in for literal strings.
//
// A Tokenizer is a pull cursor over one buffer. It tracks a monotonically
// increasing byte offset and supports skipping a balanced container without
// materializing its contents. Tokenizer errors are not recoverable: once a
// tape.Error surfaces, the cursor position can no longer be trusted and the
// whole ingestion must stop.
//
// Binary dictionary ids are surfaced as DictID tokens and left unresolved
// here; resolution against a Resolver happens downstream, which keeps
// SkipContainer usable without any dictionary at hand.
package tape

import "fmt"

// TokenKind identifies the shape of a Token.
type TokenKind uint8

const (
	KindOpen   TokenKind = iota // {
	KindClose                   // }
	KindAssign                  // =
	KindScalar                  // text scalar, quoted or bare
	KindI32                     // binary signed 32-bit
	KindI64                     // binary signed 64-bit
	KindU32                     // binary unsigned 32-bit
	KindU64                     // binary unsigned 64-bit
	KindF32                     // binary fixed-point, 1/1000 scale
	KindF64                     // binary fixed-point, 1/100000 scale
	KindBool                    // binary boolean
	KindDictID                  // binary dictionary id, unresolved
	KindRGB                     // binary color triplet
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	case KindAssign:
		return "assign"
	case KindScalar:
		return "scalar"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindDictID:
		return "dictid"
	case KindRGB:
		return "rgb"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Token is one element of the tape. Payload accessors return the zero value
// when called on a token of a different kind.
type Token struct {
	Kind   TokenKind
	Offset int64 // byte offset of the token's first byte

	text   []byte
	quoted bool
	num    int64
	unum   uint64
	real   float64
	flag   bool
	id     uint16
	rgb    [3]uint32
}

// Text returns the scalar bytes of a KindScalar token. The slice aliases the
// tokenizer's input buffer and stays valid as long as the buffer does.
func (t Token) Text() []byte { return t.text }

// Quoted reports whether a KindScalar token was quoted in the source.
func (t Token) Quoted() bool { return t.quoted }

// Int returns the value of a KindI32 or KindI64 token.
func (t Token) Int() int64 { return t.num }

// Uint returns the value of a KindU32 or KindU64 token.
func (t Token) Uint() uint64 { return t.unum }

// Real returns the value of a KindF32 or KindF64 token.
func (t Token) Real() float64 { return t.real }

// Bool returns the value of a KindBool token.
func (t Token) Bool() bool { return t.flag }

// DictID returns the dictionary id of a KindDictID token.
func (t Token) DictID() uint16 { return t.id }

// RGB returns the channels of a KindRGB token.
func (t Token) RGB() [3]uint32 { return t.rgb }

// Tokenizer is a pull cursor over one save buffer. Next returns io.EOF when
// the buffer is exhausted.
type Tokenizer interface {
	// Next consumes and returns the next token.
	Next() (Token, error)

	// SkipContainer advances past the matching Close of a container whose
	// Open has already been consumed, without materializing its contents.
	SkipContainer() error

	// Offset reports the number of bytes consumed so far.
	Offset() int64
}

// Error is a fatal tokenizer failure. The byte offset points at the first
// byte the tokenizer could not make sense of.
type Error struct {
	Offset int64
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("tape: %s at offset %d", e.Reason, e.Offset)
}
