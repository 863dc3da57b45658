package savefile

import (
	"errors"
	"testing"

	"github.com/ck3tools/ck3save/tape"
)

// assembleText runs the assembler over a section body whose opening
// brace was already consumed, the position Section.Parse starts from.
func assembleText(t *testing.T, body string) *Value {
	t.Helper()
	v, err := assemble(tape.NewTextReader([]byte(body)), nil, "test")
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	return v
}

func mustObject(t *testing.T, v *Value) *Object {
	t.Helper()
	obj, err := v.AsObject()
	if err != nil {
		t.Fatalf("AsObject failed: %v", err)
	}
	return obj
}

func TestAssemble_Empty(t *testing.T) {
	obj := mustObject(t, assembleText(t, ""))
	if !obj.IsArray() || obj.Len() != 0 {
		t.Errorf("Expected empty array, got IsArray=%v Len=%d", obj.IsArray(), obj.Len())
	}
}

func TestAssemble_EmptyContainer(t *testing.T) {
	obj := mustObject(t, assembleText(t, "}"))
	if !obj.IsArray() || obj.Len() != 0 {
		t.Errorf("Expected empty array, got IsArray=%v Len=%d", obj.IsArray(), obj.Len())
	}
}

func TestAssemble_MixedObject(t *testing.T) {
	// Anonymous values and numeric index assignments interleave; the
	// indexed entries land at their positions within the array.
	obj := mustObject(t, assembleText(t, "a b 1=c 2={d=5}}"))
	if !obj.IsArray() {
		t.Fatal("Expected array result")
	}
	if obj.Len() != 4 {
		t.Fatalf("Expected 4 items, got %d", obj.Len())
	}

	first, _ := obj.Index(0)
	if s, _ := first.AsString(); s != "a" {
		t.Errorf("Expected item 0 \"a\", got %v", first)
	}
	third, err := obj.Index(2)
	if err != nil {
		t.Fatalf("Index(2) failed: %v", err)
	}
	inner := mustObject(t, third)
	if d, err := inner.GetInteger("d"); err != nil || d != 5 {
		t.Errorf("Expected item 2 to map d to 5, got %d, %v", d, err)
	}
}

func TestAssemble_MixedDuplicateIndexes(t *testing.T) {
	obj := mustObject(t, assembleText(t, "a b 1=c 2={d=5} 1={e=6}"))
	if !obj.IsArray() || obj.Len() != 4 {
		t.Fatalf("Expected array of 4, got IsArray=%v Len=%d", obj.IsArray(), obj.Len())
	}

	// The repeated index 1 coalesced into an array before the merge.
	second, err := obj.Index(1)
	if err != nil {
		t.Fatalf("Index(1) failed: %v", err)
	}
	pair := mustObject(t, second)
	if !pair.IsArray() || pair.Len() != 2 {
		t.Errorf("Expected coalesced pair at index 1, got IsArray=%v Len=%d", pair.IsArray(), pair.Len())
	}
}

func TestAssemble_ColorHeaders(t *testing.T) {
	obj := mustObject(t, assembleText(t, "color1=rgb { 220 180 20 } color2=hsv { 0.1 0.2 0.3 }}"))

	rgb, err := obj.GetObject("color1")
	if err != nil {
		t.Fatalf("GetObject(color1) failed: %v", err)
	}
	if !rgb.IsArray() || rgb.Len() != 3 {
		t.Fatalf("Expected rgb triple, got IsArray=%v Len=%d", rgb.IsArray(), rgb.Len())
	}
	ch, _ := rgb.Index(1)
	if n, _ := ch.AsInteger(); n != 180 {
		t.Errorf("Expected channel 180, got %v", ch)
	}

	hsv, err := obj.GetObject("color2")
	if err != nil {
		t.Fatalf("GetObject(color2) failed: %v", err)
	}
	ch, _ = hsv.Index(2)
	if f, err := ch.AsReal(); err != nil || f != 0.3 {
		t.Errorf("Expected hsv channel 0.3, got %v, %v", ch, err)
	}
}

func TestAssemble_QuotedUTF8(t *testing.T) {
	obj := mustObject(t, assembleText(t, "test=\"Malik al-Muazzam Styrkár\"}"))
	if got, err := obj.GetString("test"); err != nil || got != "Malik al-Muazzam Styrkár" {
		t.Errorf("GetString(test) = %q, %v", got, err)
	}
}

func TestAssemble_Classification(t *testing.T) {
	obj := mustObject(t, assembleText(t, `
		d=867.1.1
		f=0.5
		neg=-5
		t=yes
		fl=no
		s=norse
		q="1066.1.1"
		odd=1.2.3.4
		big=4294967296
	}`))

	tests := []struct {
		key  string
		want Kind
	}{
		{"d", KindDate},
		{"f", KindReal},
		{"neg", KindInteger},
		{"t", KindBoolean},
		{"fl", KindBoolean},
		{"s", KindString},
		{"q", KindString},
		{"odd", KindString},
		{"big", KindInteger},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, err := obj.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%s) failed: %v", tt.key, err)
			}
			if v.Kind() != tt.want {
				t.Errorf("Kind of %s = %s, want %s", tt.key, v.Kind(), tt.want)
			}
		})
	}

	// Quoted scalars keep their spelling even when they look typed.
	if got, _ := obj.GetString("q"); got != "1066.1.1" {
		t.Errorf("Expected quoted date-looking string, got %q", got)
	}
	if d, err := obj.GetDate("d"); err != nil || (d != Date{Year: 867, Month: 1, Day: 1}) {
		t.Errorf("GetDate(d) = %v, %v", d, err)
	}
}

func TestAssemble_ShapeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"trailing bare word", "a=hello\nb\n}"},
		{"leading bare word", "b\na=hello\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assemble(tape.NewTextReader([]byte(tt.body)), nil, "test")
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("Expected *ShapeError, got %v", err)
			}
			if shapeErr.Key != "a" {
				t.Errorf("Expected offending key \"a\", got %q", shapeErr.Key)
			}
		})
	}
}

func TestAssemble_AssignWithoutKey(t *testing.T) {
	_, err := assemble(tape.NewTextReader([]byte("=5}")), nil, "test")
	var secErr *SectionError
	if !errors.As(err, &secErr) {
		t.Fatalf("Expected *SectionError, got %v", err)
	}
}

func TestAssemble_TruncatedBody(t *testing.T) {
	// A body cut off mid-container settles what the section level
	// collected; the unclosed child is lost.
	obj := mustObject(t, assembleText(t, "x=1 y={ 2"))
	if obj.IsArray() {
		t.Fatal("Expected map result")
	}
	if obj.Len() != 1 {
		t.Errorf("Expected single surviving entry, got %d", obj.Len())
	}
	if n, err := obj.GetInteger("x"); err != nil || n != 1 {
		t.Errorf("GetInteger(x) = %d, %v", n, err)
	}
}

func TestAssemble_PendingKeyBeforeQuoted(t *testing.T) {
	// A bare word stays buffered across a quoted value and is only
	// settled by the next bare token or the closing brace.
	obj := mustObject(t, assembleText(t, `hello "world"}`))
	if !obj.IsArray() || obj.Len() != 2 {
		t.Fatalf("Expected array of 2, got IsArray=%v Len=%d", obj.IsArray(), obj.Len())
	}
	first, _ := obj.Index(0)
	if s, _ := first.AsString(); s != "world" {
		t.Errorf("Expected quoted value first, got %v", first)
	}
	second, _ := obj.Index(1)
	if s, _ := second.AsString(); s != "hello" {
		t.Errorf("Expected buffered word flushed last, got %v", second)
	}
}
