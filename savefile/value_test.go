package savefile

import (
	"errors"
	"testing"
)

func TestValue_Kinds(t *testing.T) {
	tests := []struct {
		name string
		val  *Value
		want Kind
	}{
		{"string", Str("norse"), KindString},
		{"integer", Int(7548), KindInteger},
		{"real", Real(0.5), KindReal},
		{"boolean", Bool(true), KindBoolean},
		{"date", FromDate(Date{Year: 1066, Month: 9, Day: 15}), KindDate},
		{"object", Array(Int(1)), KindObject},
		{"nil", nil, KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.Kind(); got != tt.want {
				t.Errorf("Kind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValue_AsString(t *testing.T) {
	if got, err := Str("dynn_Sao").AsString(); err != nil || got != "dynn_Sao" {
		t.Errorf("AsString() = %q, %v", got, err)
	}

	// No other kind coerces, integers included.
	_, err := Int(5).AsString()
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Expected *ConversionError, got %v", err)
	}
	if convErr.Want != "string" || convErr.Got != "integer" {
		t.Errorf("Expected string/integer conversion error, got %v", convErr)
	}
}

func TestValue_AsInteger(t *testing.T) {
	if got, err := Int(83939093).AsInteger(); err != nil || got != 83939093 {
		t.Errorf("AsInteger() = %d, %v", got, err)
	}
	if got, err := Real(3.9).AsInteger(); err != nil || got != 3 {
		t.Errorf("AsInteger() on real = %d, %v, want truncation to 3", got, err)
	}
	if got, err := Real(-3.9).AsInteger(); err != nil || got != -3 {
		t.Errorf("AsInteger() on negative real = %d, %v, want -3", got, err)
	}

	// Numeric-looking strings stay strings.
	if _, err := Str("12").AsInteger(); err == nil {
		t.Error("Expected error converting string to integer")
	}
	if _, err := Bool(true).AsInteger(); err == nil {
		t.Error("Expected error converting boolean to integer")
	}
}

func TestValue_AsReal(t *testing.T) {
	if got, err := Real(0.001).AsReal(); err != nil || got != 0.001 {
		t.Errorf("AsReal() = %v, %v", got, err)
	}
	if got, err := Int(5).AsReal(); err != nil || got != 5.0 {
		t.Errorf("AsReal() on integer = %v, %v, want 5.0", got, err)
	}
	if _, err := Str("0.5").AsReal(); err == nil {
		t.Error("Expected error converting string to real")
	}
}

func TestValue_AsBoolean(t *testing.T) {
	if got, err := Bool(true).AsBoolean(); err != nil || !got {
		t.Errorf("AsBoolean() = %v, %v", got, err)
	}
	if _, err := Str("yes").AsBoolean(); err == nil {
		t.Error("Expected error converting string to boolean")
	}
}

func TestValue_AsDate(t *testing.T) {
	want := Date{Year: 1066, Month: 9, Day: 15}
	if got, err := FromDate(want).AsDate(); err != nil || got != want {
		t.Errorf("AsDate() = %v, %v", got, err)
	}

	// Binary saves carry dates as hour counts.
	if got, err := Int(43808760).AsDate(); err != nil || (got != Date{Year: 1, Month: 1, Day: 1}) {
		t.Errorf("AsDate() on integer = %v, %v, want 1.1.1", got, err)
	}
	if _, err := Int(-5).AsDate(); err == nil {
		t.Error("Expected error converting negative integer to date")
	}
	if _, err := Str("1066.9.15").AsDate(); err == nil {
		t.Error("Expected error converting string to date")
	}
}

func TestValue_AsID(t *testing.T) {
	if got, err := Int(7548).AsID(); err != nil || got != 7548 {
		t.Errorf("AsID() = %d, %v", got, err)
	}
	if _, err := Int(-1).AsID(); err == nil {
		t.Error("Expected error converting negative integer to id")
	}
	if _, err := Str("7548").AsID(); err == nil {
		t.Error("Expected error converting string to id")
	}
}

func TestValue_AsObject(t *testing.T) {
	obj, err := Array(Int(1), Int(2)).AsObject()
	if err != nil {
		t.Fatalf("AsObject failed: %v", err)
	}
	if !obj.IsArray() || obj.Len() != 2 {
		t.Errorf("Expected array of len 2, got IsArray=%v Len=%d", obj.IsArray(), obj.Len())
	}
	if _, err := Int(5).AsObject(); err == nil {
		t.Error("Expected error converting integer to object")
	}
}

func TestValue_NilAccessors(t *testing.T) {
	var v *Value
	_, err := v.AsString()
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Expected *ConversionError, got %v", err)
	}
	if convErr.Got != "nil" {
		t.Errorf("Expected Got \"nil\", got %q", convErr.Got)
	}
}

// ============================================================
// Object access
// ============================================================

func TestObject_ArrayAccess(t *testing.T) {
	obj, err := Array(Int(7548), Str("b_derby"), Bool(false)).AsObject()
	if err != nil {
		t.Fatalf("AsObject failed: %v", err)
	}

	if got, err := obj.Index(0); err != nil {
		t.Errorf("Index(0) failed: %v", err)
	} else if n, _ := got.AsInteger(); n != 7548 {
		t.Errorf("Index(0) = %v, want 7548", got)
	}

	_, err = obj.Index(3)
	var keyErr *KeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("Expected *KeyError for out of range index, got %v", err)
	}

	// Keyed access on an array is a shape mismatch, not a missing key.
	_, err = obj.Get("x")
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Expected *ConversionError for Get on array, got %v", err)
	}
}

func TestObject_MapAccess(t *testing.T) {
	obj, err := Map(
		Field("name", Str("dynn_Sao")),
		Field("dynasty", Int(3623)),
		Field("prestige", Real(120.5)),
		Field("landless", Bool(false)),
		Field("found_date", FromDate(Date{Year: 750, Month: 1, Day: 1})),
		Field("historical", Array(Int(4440), Int(5398))),
	).AsObject()
	if err != nil {
		t.Fatalf("AsObject failed: %v", err)
	}

	if got, err := obj.GetString("name"); err != nil || got != "dynn_Sao" {
		t.Errorf("GetString(name) = %q, %v", got, err)
	}
	if got, err := obj.GetInteger("dynasty"); err != nil || got != 3623 {
		t.Errorf("GetInteger(dynasty) = %d, %v", got, err)
	}
	if got, err := obj.GetReal("prestige"); err != nil || got != 120.5 {
		t.Errorf("GetReal(prestige) = %v, %v", got, err)
	}
	if got, err := obj.GetBoolean("landless"); err != nil || got {
		t.Errorf("GetBoolean(landless) = %v, %v", got, err)
	}
	if got, err := obj.GetDate("found_date"); err != nil || (got != Date{Year: 750, Month: 1, Day: 1}) {
		t.Errorf("GetDate(found_date) = %v, %v", got, err)
	}
	if got, err := obj.GetID("dynasty"); err != nil || got != 3623 {
		t.Errorf("GetID(dynasty) = %d, %v", got, err)
	}
	if hist, err := obj.GetObject("historical"); err != nil || hist.Len() != 2 {
		t.Errorf("GetObject(historical) = %v, %v", hist, err)
	}

	_, err = obj.Get("missing")
	var keyErr *KeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("Expected *KeyError for missing key, got %v", err)
	}
	if keyErr.Key != "missing" {
		t.Errorf("Expected key \"missing\" in error, got %q", keyErr.Key)
	}

	// Positional access on a map is a shape mismatch.
	_, err = obj.Index(0)
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Expected *ConversionError for Index on map, got %v", err)
	}
}

func TestObject_DuplicateKeys(t *testing.T) {
	// A repeated key turns the slot into an array of both values.
	obj, err := Map(
		Field("a", Str("hello")),
		Field("a", Str("world")),
	).AsObject()
	if err != nil {
		t.Fatalf("AsObject failed: %v", err)
	}
	arr, err := obj.GetObject("a")
	if err != nil {
		t.Fatalf("GetObject(a) failed: %v", err)
	}
	if !arr.IsArray() || arr.Len() != 2 {
		t.Fatalf("Expected array of len 2, got IsArray=%v Len=%d", arr.IsArray(), arr.Len())
	}
	first, _ := arr.Index(0)
	if s, _ := first.AsString(); s != "hello" {
		t.Errorf("Expected first duplicate \"hello\", got %q", s)
	}

	// A third occurrence appends to the existing array.
	obj, _ = Map(
		Field("a", Str("x")),
		Field("a", Str("y")),
		Field("a", Str("z")),
	).AsObject()
	arr, _ = obj.GetObject("a")
	if arr.Len() != 3 {
		t.Errorf("Expected three coalesced values, got %d", arr.Len())
	}

	// An existing array value absorbs the newcomer instead of nesting.
	obj, _ = Map(
		Field("a", Array(Int(1), Int(2))),
		Field("a", Int(3)),
	).AsObject()
	arr, _ = obj.GetObject("a")
	if arr.Len() != 3 {
		t.Fatalf("Expected absorbed array of len 3, got %d", arr.Len())
	}
	last, _ := arr.Index(2)
	if n, _ := last.AsInteger(); n != 3 {
		t.Errorf("Expected appended 3, got %v", last)
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"equal integers", Int(5), Int(5), true},
		{"unequal integers", Int(5), Int(6), false},
		{"kind mismatch", Int(5), Str("5"), false},
		{"equal strings", Str("norse"), Str("norse"), true},
		{"equal dates", FromDate(Date{Year: 1, Month: 1, Day: 1}), FromDate(Date{Year: 1, Month: 1, Day: 1}), true},
		{"equal arrays", Array(Int(1), Int(2)), Array(Int(1), Int(2)), true},
		{"array order matters", Array(Int(1), Int(2)), Array(Int(2), Int(1)), false},
		{"array length", Array(Int(1)), Array(Int(1), Int(2)), false},
		{
			"map order ignored",
			Map(Field("a", Int(1)), Field("b", Int(2))),
			Map(Field("b", Int(2)), Field("a", Int(1))),
			true,
		},
		{
			"map value mismatch",
			Map(Field("a", Int(1))),
			Map(Field("a", Int(2))),
			false,
		},
		{"array vs map", Array(Int(1)), Map(Field("0", Int(1))), false},
		{
			"nested",
			Map(Field("a", Array(Int(1), Map(Field("b", Str("c")))))),
			Map(Field("a", Array(Int(1), Map(Field("b", Str("c")))))),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}
