package gamestate

import (
	"github.com/ck3tools/ck3save/savefile"
)

// opt returns the value at key, or nil when the container has no entry
// for it. Conversion of a present value stays fallible at the call
// site.
func opt(o *savefile.Object, key string) *savefile.Value {
	v, err := o.Get(key)
	if err != nil {
		return nil
	}
	return v
}

// idList reads an array of entity ids.
func idList(v *savefile.Value) ([]uint64, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	if !obj.IsArray() {
		return nil, &savefile.ConversionError{Want: "array", Got: "map"}
	}
	ids := make([]uint64, 0, obj.Len())
	for _, item := range obj.Items() {
		id, err := item.AsID()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// intList reads an array of integers.
func intList(v *savefile.Value) ([]int64, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	if !obj.IsArray() {
		return nil, &savefile.ConversionError{Want: "array", Got: "map"}
	}
	out := make([]int64, 0, obj.Len())
	for _, item := range obj.Items() {
		n, err := item.AsInteger()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// stringList reads an array of strings.
func stringList(v *savefile.Value) ([]string, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	if !obj.IsArray() {
		return nil, &savefile.ConversionError{Want: "array", Got: "map"}
	}
	out := make([]string, 0, obj.Len())
	for _, item := range obj.Items() {
		s, err := item.AsString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// currencyAmount reads the amount stored under key in one of the
// game's currency blobs. Depending on the save version the amount is a
// bare number or wrapped in a value key; a missing key is zero.
func currencyAmount(o *savefile.Object, key string) (float64, error) {
	v := opt(o, key)
	if v == nil {
		return 0, nil
	}
	if v.Kind() == savefile.KindObject {
		inner, err := v.AsObject()
		if err != nil {
			return 0, err
		}
		return inner.GetReal("value")
	}
	return v.AsReal()
}
