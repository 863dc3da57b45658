package savefile

import (
	"cmp"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ck3tools/ck3save/tape"
)

// classify types a bare text scalar. Two dots make a date, one dot a
// real, "yes"/"no" a boolean, a plain integer an integer; everything
// else, including near-misses like "1.2.3.4", stays a string. Quoted
// scalars never pass through here.
func classify(text string) *Value {
	switch strings.Count(text, ".") {
	case 2:
		if d, ok := ParseDate(text); ok {
			return FromDate(d)
		}
	case 1:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Real(f)
		}
	case 0:
		switch text {
		case "yes":
			return Bool(true)
		case "no":
			return Bool(false)
		}
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(n)
		}
	}
	return Str(text)
}

// Color headers are not values. `color=rgb { 220 220 220 }` stores the
// channel triple directly under color.
func isColorHeader(text []byte) bool {
	return string(text) == "rgb" || string(text) == "hsv"
}

// frame accumulates one container under construction. The format allows
// keyed and anonymous values interleaved in the same container, so a
// frame carries both accumulators; the shape is settled only on close.
type frame struct {
	name  string
	named bool
	items []*Value
	m     *Object
}

func (f *frame) push(v *Value) {
	f.items = append(f.items, v)
}

func (f *frame) insert(key string, v *Value) {
	if f.m == nil {
		f.m = &Object{index: make(map[string]int)}
	}
	f.m.insert(key, v)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// materialize settles the frame into an array or a map. When both
// accumulators hold data, every key must be numeric: the keyed entries
// are then sparse index assignments into the array. Any other mix has no
// defined shape.
func (f *frame) materialize() (*Object, error) {
	if f.m == nil {
		return &Object{arr: true, items: f.items}, nil
	}
	if f.items == nil {
		return f.m, nil
	}
	type indexed struct {
		idx int
		key string
		val *Value
	}
	keyed := make([]indexed, 0, len(f.m.entries))
	for _, e := range f.m.entries {
		if !isDigits(e.Key) {
			return nil, &ShapeError{Key: e.Key}
		}
		idx, err := strconv.Atoi(e.Key)
		if err != nil {
			return nil, &ShapeError{Key: e.Key}
		}
		keyed = append(keyed, indexed{idx: idx, key: e.Key, val: e.Value})
	}
	slices.SortFunc(keyed, func(a, b indexed) int {
		if c := cmp.Compare(a.idx, b.idx); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	items := f.items
	for _, k := range keyed {
		if k.idx > len(items) {
			items = append(items, k.val)
		} else {
			items = slices.Insert(items, k.idx, k.val)
		}
	}
	return &Object{arr: true, items: items}, nil
}

// tokenValue converts a typed binary scalar token into a value.
func tokenValue(tok tape.Token) *Value {
	switch tok.Kind {
	case tape.KindI32, tape.KindI64:
		return Int(tok.Int())
	case tape.KindU32, tape.KindU64:
		return Int(int64(tok.Uint()))
	case tape.KindF32, tape.KindF64:
		return Real(tok.Real())
	case tape.KindBool:
		return Bool(tok.Bool())
	case tape.KindRGB:
		rgb := tok.RGB()
		return Array(Int(int64(rgb[0])), Int(int64(rgb[1])), Int(int64(rgb[2])))
	}
	return nil
}

// assemble builds the value tree for one section whose Open has already
// been consumed. The cursor is left just past the matching Close. A bare
// scalar is buffered as a potential key until the next token decides
// whether it was one; binary dictionary ids resolve to the same pending
// state.
func assemble(tz tape.Tokenizer, resolver tape.Resolver, section string) (*Value, error) {
	stack := []*frame{{}}
	var key string
	var hasKey, pastEq bool

	addValue := func(v *Value, off int64) error {
		top := stack[len(stack)-1]
		if pastEq {
			if !hasKey {
				return &SectionError{Section: section, Offset: off, Reason: "assignment with no key"}
			}
			top.insert(key, v)
			hasKey = false
			pastEq = false
			return nil
		}
		top.push(v)
		return nil
	}

	// flushKey types and pushes a pending scalar that turned out not to
	// be a key after all.
	flushKey := func() {
		if hasKey && !pastEq {
			stack[len(stack)-1].push(classify(key))
			hasKey = false
		}
	}

	for {
		tok, err := tz.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case tape.KindOpen:
			child := &frame{}
			if hasKey {
				child.name, child.named = key, true
				hasKey = false
			}
			stack = append(stack, child)
			pastEq = false
		case tape.KindClose:
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if hasKey {
				last.push(classify(key))
				hasKey = false
			}
			obj, err := last.materialize()
			if err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				return FromObject(obj), nil
			}
			top := stack[len(stack)-1]
			if last.named {
				top.insert(last.name, FromObject(obj))
			} else {
				top.push(FromObject(obj))
			}
		case tape.KindAssign:
			pastEq = true
		case tape.KindScalar:
			if tok.Quoted() {
				if err := addValue(Str(string(tok.Text())), tok.Offset); err != nil {
					return nil, err
				}
				break
			}
			if isColorHeader(tok.Text()) {
				break
			}
			if pastEq {
				if err := addValue(classify(string(tok.Text())), tok.Offset); err != nil {
					return nil, err
				}
				break
			}
			flushKey()
			key = string(tok.Text())
			hasKey = true
		case tape.KindDictID:
			name, ok := resolveID(resolver, tok.DictID())
			if !ok {
				return nil, &UnknownTokenError{ID: tok.DictID(), Offset: tok.Offset}
			}
			if pastEq {
				if err := addValue(classify(name), tok.Offset); err != nil {
					return nil, err
				}
				break
			}
			flushKey()
			key = name
			hasKey = true
		default:
			if err := addValue(tokenValue(tok), tok.Offset); err != nil {
				return nil, err
			}
		}
	}
	// Truncated section: settle whatever the root frame collected.
	obj, err := stack[0].materialize()
	if err != nil {
		return nil, err
	}
	return FromObject(obj), nil
}
