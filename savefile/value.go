package savefile

import "fmt"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindString Kind = iota
	KindInteger
	KindReal
	KindBoolean
	KindDate
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Value is one parsed save value. A String may spell anything in reality,
// so consumers should go through the As* accessors rather than match on
// the kind directly; the accessors implement the format's loose
// coercions.
type Value struct {
	kind Kind
	str  string
	num  int64
	real float64
	flag bool
	date Date
	obj  *Object
}

// ============================================================
// Constructors
// ============================================================

// Str creates a string value.
func Str(v string) *Value { return &Value{kind: KindString, str: v} }

// Int creates an integer value.
func Int(v int64) *Value { return &Value{kind: KindInteger, num: v} }

// Real creates a real value.
func Real(v float64) *Value { return &Value{kind: KindReal, real: v} }

// Bool creates a boolean value.
func Bool(v bool) *Value { return &Value{kind: KindBoolean, flag: v} }

// FromDate creates a date value.
func FromDate(d Date) *Value { return &Value{kind: KindDate, date: d} }

// FromObject wraps an object as a value.
func FromObject(o *Object) *Value { return &Value{kind: KindObject, obj: o} }

// Array creates an array-form object value.
func Array(items ...*Value) *Value {
	return FromObject(&Object{arr: true, items: items})
}

// Map creates a map-form object value. Duplicate keys coalesce into an
// array under that key, the same way repeated keys in a save do.
func Map(entries ...Entry) *Value {
	o := &Object{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		o.insert(e.Key, e.Value)
	}
	return FromObject(o)
}

// Field creates a map entry for use with Map.
func Field(key string, v *Value) Entry {
	return Entry{Key: key, Value: v}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindString
	}
	return v.kind
}

func convErr(v *Value, want string) *ConversionError {
	got := "nil"
	if v != nil {
		got = v.kind.String()
	}
	return &ConversionError{Want: want, Got: got}
}

// AsString returns the string value. No other kind coerces to a string.
func (v *Value) AsString() (string, error) {
	if v == nil || v.kind != KindString {
		return "", convErr(v, "string")
	}
	return v.str, nil
}

// AsInteger returns the integer value. Reals truncate toward zero;
// strings do not coerce, not even numeric-looking ones.
func (v *Value) AsInteger() (int64, error) {
	if v == nil {
		return 0, convErr(v, "integer")
	}
	switch v.kind {
	case KindInteger:
		return v.num, nil
	case KindReal:
		return int64(v.real), nil
	}
	return 0, convErr(v, "integer")
}

// AsReal returns the real value. Integers widen.
func (v *Value) AsReal() (float64, error) {
	if v == nil {
		return 0, convErr(v, "real")
	}
	switch v.kind {
	case KindReal:
		return v.real, nil
	case KindInteger:
		return float64(v.num), nil
	}
	return 0, convErr(v, "real")
}

// AsBoolean returns the boolean value.
func (v *Value) AsBoolean() (bool, error) {
	if v == nil || v.kind != KindBoolean {
		return false, convErr(v, "boolean")
	}
	return v.flag, nil
}

// AsDate returns the date value. Integers decode through DateFromBinary.
func (v *Value) AsDate() (Date, error) {
	if v == nil {
		return Date{}, convErr(v, "date")
	}
	switch v.kind {
	case KindDate:
		return v.date, nil
	case KindInteger:
		if d, ok := DateFromBinary(v.num); ok {
			return d, nil
		}
	}
	return Date{}, convErr(v, "date")
}

// AsID returns the value as an entity id. Negative values do not convert.
func (v *Value) AsID() (uint64, error) {
	n, err := v.AsInteger()
	if err != nil || n < 0 {
		return 0, convErr(v, "id")
	}
	return uint64(n), nil
}

// AsObject returns the object value.
func (v *Value) AsObject() (*Object, error) {
	if v == nil || v.kind != KindObject {
		return nil, convErr(v, "object")
	}
	return v.obj, nil
}

// Equal reports deep equality. Map entry order is not significant; array
// order is.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInteger:
		return v.num == other.num
	case KindReal:
		return v.real == other.real
	case KindBoolean:
		return v.flag == other.flag
	case KindDate:
		return v.date == other.date
	case KindObject:
		return v.obj.Equal(other.obj)
	}
	return false
}

// ============================================================
// Objects
// ============================================================

// Entry is one key-value pair of a map-form object.
type Entry struct {
	Key   string
	Value *Value
}

// Object is one parsed container. The format does not mark containers as
// arrays or maps; the contents decide, and mixed containers are settled
// on close (see the package docs). An Object is one or the other, never
// both.
type Object struct {
	arr     bool
	items   []*Value
	entries []Entry
	index   map[string]int
}

// IsArray reports whether the object is array-form.
func (o *Object) IsArray() bool { return o != nil && o.arr }

// Len returns the number of items or entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	if o.arr {
		return len(o.items)
	}
	return len(o.entries)
}

// Items returns the array items. Map-form objects have none.
func (o *Object) Items() []*Value {
	if o == nil {
		return nil
	}
	return o.items
}

// Entries returns the map entries in insertion order. Array-form objects
// have none.
func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}
	return o.entries
}

func objKind(o *Object) string {
	if o == nil {
		return "nil"
	}
	if o.arr {
		return "array"
	}
	return "map"
}

// Index returns the i-th array item.
func (o *Object) Index(i int) (*Value, error) {
	if o == nil || !o.arr {
		return nil, &ConversionError{Want: "array", Got: objKind(o)}
	}
	if i < 0 || i >= len(o.items) {
		return nil, &KeyError{Index: i, Len: len(o.items), indexed: true}
	}
	return o.items[i], nil
}

// Get returns the value at key.
func (o *Object) Get(key string) (*Value, error) {
	if o == nil || o.arr {
		return nil, &ConversionError{Want: "map", Got: objKind(o)}
	}
	i, ok := o.index[key]
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return o.entries[i].Value, nil
}

// GetString returns the value at key as a string.
func (o *Object) GetString(key string) (string, error) {
	v, err := o.Get(key)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// GetInteger returns the value at key as an integer.
func (o *Object) GetInteger(key string) (int64, error) {
	v, err := o.Get(key)
	if err != nil {
		return 0, err
	}
	return v.AsInteger()
}

// GetReal returns the value at key as a real.
func (o *Object) GetReal(key string) (float64, error) {
	v, err := o.Get(key)
	if err != nil {
		return 0, err
	}
	return v.AsReal()
}

// GetBoolean returns the value at key as a boolean.
func (o *Object) GetBoolean(key string) (bool, error) {
	v, err := o.Get(key)
	if err != nil {
		return false, err
	}
	return v.AsBoolean()
}

// GetDate returns the value at key as a date.
func (o *Object) GetDate(key string) (Date, error) {
	v, err := o.Get(key)
	if err != nil {
		return Date{}, err
	}
	return v.AsDate()
}

// GetID returns the value at key as an entity id.
func (o *Object) GetID(key string) (uint64, error) {
	v, err := o.Get(key)
	if err != nil {
		return 0, err
	}
	return v.AsID()
}

// GetObject returns the value at key as an object.
func (o *Object) GetObject(key string) (*Object, error) {
	v, err := o.Get(key)
	if err != nil {
		return nil, err
	}
	return v.AsObject()
}

// insert adds a key-value pair. A key that already exists converts its
// value into an array and appends, so repeated keys lose nothing.
func (o *Object) insert(key string, v *Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		prev := o.entries[i].Value
		if prev.kind == KindObject && prev.obj.arr {
			prev.obj.items = append(prev.obj.items, v)
		} else {
			o.entries[i].Value = Array(prev, v)
		}
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, Entry{Key: key, Value: v})
}

// Equal reports deep equality with another object.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.arr != other.arr {
		return false
	}
	if o.arr {
		if len(o.items) != len(other.items) {
			return false
		}
		for i := range o.items {
			if !o.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	}
	if len(o.entries) != len(other.entries) {
		return false
	}
	for _, e := range o.entries {
		i, ok := other.index[e.Key]
		if !ok || !e.Value.Equal(other.entries[i].Value) {
			return false
		}
	}
	return true
}
