package tape

import (
	"encoding/binary"
	"io"
	"unicode/utf8"
)

// Binary token ids, little-endian u16.
const (
	binAssign   = 0x0001
	binOpen     = 0x0003
	binClose    = 0x0004
	binI32      = 0x000C
	binF32      = 0x000D
	binBool     = 0x000E
	binQuoted   = 0x000F
	binU32      = 0x0014
	binUnquoted = 0x0017
	binF64      = 0x0167
	binRGB      = 0x0243
	binU64      = 0x029C
	binI64      = 0x0317
)

// Fixed-point scales for the two float encodings.
const (
	f32Scale = 1000.0
	f64Scale = 100000.0
)

// BinaryReader tokenizes the binary encoding. Dictionary ids are passed
// through unresolved as DictID tokens.
type BinaryReader struct {
	buf []byte
	pos int
}

// NewBinaryReader creates a tokenizer over buf. The buffer is not copied.
func NewBinaryReader(buf []byte) *BinaryReader {
	return &BinaryReader{buf: buf}
}

// Offset reports the number of bytes consumed so far.
func (r *BinaryReader) Offset() int64 { return int64(r.pos) }

func (r *BinaryReader) take(n int, what string) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, &Error{Offset: int64(r.pos), Reason: "truncated " + what}
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Next consumes and returns the next token. It returns io.EOF at the end of
// the buffer.
func (r *BinaryReader) Next() (Token, error) {
	if r.pos >= len(r.buf) {
		return Token{}, io.EOF
	}
	start := int64(r.pos)
	hdr, err := r.take(2, "token id")
	if err != nil {
		return Token{}, err
	}
	id := binary.LittleEndian.Uint16(hdr)

	switch id {
	case binAssign:
		return Token{Kind: KindAssign, Offset: start}, nil
	case binOpen:
		return Token{Kind: KindOpen, Offset: start}, nil
	case binClose:
		return Token{Kind: KindClose, Offset: start}, nil
	case binI32:
		b, err := r.take(4, "i32 payload")
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindI32, Offset: start, num: int64(int32(binary.LittleEndian.Uint32(b)))}, nil
	case binI64:
		b, err := r.take(8, "i64 payload")
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindI64, Offset: start, num: int64(binary.LittleEndian.Uint64(b))}, nil
	case binU32:
		b, err := r.take(4, "u32 payload")
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindU32, Offset: start, unum: uint64(binary.LittleEndian.Uint32(b))}, nil
	case binU64:
		b, err := r.take(8, "u64 payload")
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindU64, Offset: start, unum: binary.LittleEndian.Uint64(b)}, nil
	case binF32:
		b, err := r.take(4, "f32 payload")
		if err != nil {
			return Token{}, err
		}
		v := int32(binary.LittleEndian.Uint32(b))
		return Token{Kind: KindF32, Offset: start, real: float64(v) / f32Scale}, nil
	case binF64:
		b, err := r.take(8, "f64 payload")
		if err != nil {
			return Token{}, err
		}
		v := int64(binary.LittleEndian.Uint64(b))
		return Token{Kind: KindF64, Offset: start, real: float64(v) / f64Scale}, nil
	case binBool:
		b, err := r.take(1, "bool payload")
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindBool, Offset: start, flag: b[0] != 0}, nil
	case binQuoted, binUnquoted:
		text, err := r.scanString(start)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindScalar, Offset: start, text: text, quoted: id == binQuoted}, nil
	case binRGB:
		return r.scanRGB(start)
	default:
		return Token{Kind: KindDictID, Offset: start, id: id}, nil
	}
}

func (r *BinaryReader) scanString(start int64) ([]byte, error) {
	b, err := r.take(2, "string length")
	if err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint16(b))
	text, err := r.take(n, "string payload")
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(text) {
		return nil, &Error{Offset: start, Reason: "malformed UTF-8 in quoted scalar"}
	}
	return text, nil
}

// scanRGB reads the `{ r g b }` run following an rgb marker and folds it
// into a single token.
func (r *BinaryReader) scanRGB(start int64) (Token, error) {
	open, err := r.Next()
	if err != nil {
		return Token{}, err
	}
	if open.Kind != KindOpen {
		return Token{}, &Error{Offset: open.Offset, Reason: "rgb marker not followed by a container"}
	}
	var rgb [3]uint32
	for i := range rgb {
		ch, err := r.Next()
		if err != nil {
			return Token{}, err
		}
		switch ch.Kind {
		case KindU32:
			rgb[i] = uint32(ch.Uint())
		case KindI32:
			rgb[i] = uint32(ch.Int())
		default:
			return Token{}, &Error{Offset: ch.Offset, Reason: "rgb channel is not numeric"}
		}
	}
	end, err := r.Next()
	if err != nil {
		return Token{}, err
	}
	if end.Kind != KindClose {
		return Token{}, &Error{Offset: end.Offset, Reason: "rgb container not closed after 3 channels"}
	}
	return Token{Kind: KindRGB, Offset: start, rgb: rgb}, nil
}

// SkipContainer steps over tokens by payload size until the Close matching
// an already-consumed Open. Dictionary ids need no resolution to be skipped.
func (r *BinaryReader) SkipContainer() error {
	depth := 1
	for {
		if r.pos >= len(r.buf) {
			return &Error{Offset: int64(r.pos), Reason: "truncated container"}
		}
		hdr, err := r.take(2, "token id")
		if err != nil {
			return err
		}
		var skip int
		switch id := binary.LittleEndian.Uint16(hdr); id {
		case binOpen:
			depth++
		case binClose:
			depth--
			if depth == 0 {
				return nil
			}
		case binI32, binU32, binF32:
			skip = 4
		case binI64, binU64, binF64:
			skip = 8
		case binBool:
			skip = 1
		case binQuoted, binUnquoted:
			b, err := r.take(2, "string length")
			if err != nil {
				return err
			}
			skip = int(binary.LittleEndian.Uint16(b))
		default:
			// Assign, rgb markers and dictionary ids carry no payload. An
			// rgb marker's own { r g b } run balances itself through the
			// depth counter.
		}
		if skip > 0 {
			if _, err := r.take(skip, "scalar payload"); err != nil {
				return err
			}
		}
	}
}
