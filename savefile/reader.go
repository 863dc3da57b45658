package savefile

import (
	"fmt"
	"strconv"

	"github.com/ck3tools/ck3save/tape"
)

// resolveID looks id up in r, tolerating a nil resolver.
func resolveID(r tape.Resolver, id uint16) (string, bool) {
	if r == nil {
		return "", false
	}
	return r.Resolve(id)
}

// scalarText renders a typed binary token as the string it would carry
// in a text save. Non-scalar kinds render empty.
func scalarText(tok tape.Token) string {
	switch tok.Kind {
	case tape.KindI32, tape.KindI64:
		return strconv.FormatInt(tok.Int(), 10)
	case tape.KindU32, tape.KindU64:
		return strconv.FormatUint(tok.Uint(), 10)
	case tape.KindF32, tape.KindF64:
		return strconv.FormatFloat(tok.Real(), 'f', -1, 64)
	case tape.KindBool:
		if tok.Bool() {
			return "yes"
		}
		return "no"
	}
	return ""
}

// SectionReader walks the top level of a save body and yields one
// Section per named root container. Plain key=value pairs between
// sections are collected into Attributes.
//
// Sections must be consumed in order: requesting the next section first
// skips whatever remains of the current one.
type SectionReader struct {
	tz       tape.Tokenizer
	resolver tape.Resolver
	attrs    map[string]string
	current  *Section
}

func newSectionReader(tz tape.Tokenizer, resolver tape.Resolver) *SectionReader {
	return &SectionReader{
		tz:       tz,
		resolver: resolver,
		attrs:    make(map[string]string),
	}
}

// Attributes returns the root-level key=value pairs seen so far. Pairs
// that follow a section are only present once Next has scanned past
// them.
func (r *SectionReader) Attributes() map[string]string { return r.attrs }

// Next scans to the next root container and returns it, or io.EOF when
// the save body ends.
func (r *SectionReader) Next() (*Section, error) {
	if r.current != nil && !r.current.done {
		if err := r.current.Skip(); err != nil {
			return nil, err
		}
	}
	r.current = nil

	var key string
	var hasKey, pastEq bool
	for {
		tok, err := r.tz.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case tape.KindOpen:
			if !pastEq || !hasKey {
				return nil, &SectionError{Offset: tok.Offset, Reason: "container with no name"}
			}
			r.current = &Section{reader: r, name: key}
			return r.current, nil
		case tape.KindClose:
			return nil, &SectionError{Offset: tok.Offset, Reason: "unexpected close token"}
		case tape.KindAssign:
			if !hasKey {
				return nil, &SectionError{Offset: tok.Offset, Reason: "assignment with no key"}
			}
			pastEq = true
		case tape.KindScalar:
			if tok.Quoted() {
				// A quoted scalar can complete a pair but never
				// start one.
				if pastEq && hasKey {
					r.attrs[key] = string(tok.Text())
				}
				hasKey, pastEq = false, false
				break
			}
			if pastEq && hasKey {
				r.attrs[key] = string(tok.Text())
				hasKey, pastEq = false, false
				break
			}
			key = string(tok.Text())
			hasKey, pastEq = true, false
		case tape.KindDictID:
			name, ok := resolveID(r.resolver, tok.DictID())
			if !ok {
				return nil, &UnknownTokenError{ID: tok.DictID(), Offset: tok.Offset}
			}
			if pastEq && hasKey {
				r.attrs[key] = name
				hasKey, pastEq = false, false
				break
			}
			key = name
			hasKey, pastEq = true, false
		default:
			if pastEq && hasKey {
				if s := scalarText(tok); s != "" {
					r.attrs[key] = s
				}
			}
			hasKey, pastEq = false, false
		}
	}
}

// Section is one named root container, positioned just past its opening
// brace. Each section must be consumed exactly once, by Parse or Skip.
type Section struct {
	reader *SectionReader
	name   string
	done   bool
}

// Name returns the section's root key.
func (s *Section) Name() string { return s.name }

func (s *Section) consume() {
	if s.done {
		panic(fmt.Sprintf("savefile: section %s consumed twice", s.name))
	}
	s.done = true
}

// Skip advances past the section without building anything.
func (s *Section) Skip() error {
	s.consume()
	if err := s.reader.tz.SkipContainer(); err != nil {
		return fmt.Errorf("skip section %s: %w", s.name, err)
	}
	return nil
}

// Parse assembles the section body into a value tree and consumes it.
func (s *Section) Parse() (*Value, error) {
	s.consume()
	v, err := assemble(s.reader.tz, s.reader.resolver, s.name)
	if err != nil {
		return nil, fmt.Errorf("parse section %s: %w", s.name, err)
	}
	return v, nil
}
