package savefile

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"

	"github.com/ck3tools/ck3save/tape"
)

// ============================================================
// Container detection
// ============================================================

func buildArchive(t *testing.T, name string, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("Create %s failed: %v", name, err)
	}
	if _, err := w.Write(body); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return buf.Bytes()
}

func TestFromBytes_TextPassthrough(t *testing.T) {
	save, err := FromBytes([]byte(`test={ a=1 }`))
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if save.IsBinary() {
		t.Error("Plain text save detected as binary")
	}

	r, err := save.Sections(nil)
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	obj := parseNext(t, r, "test")
	if n, err := obj.GetInteger("a"); err != nil || n != 1 {
		t.Errorf("GetInteger(a) = %d, %v", n, err)
	}
}

func TestFromBytes_ZipRoundTrip(t *testing.T) {
	inner := []byte("test={ a=1 b=\"x\" }\nsecond={ c=2 }")
	archive := buildArchive(t, "gamestate", inner)

	// Real saves carry a plain-text metadata block before the archive.
	data := append([]byte("meta_data={ version=5 }\n"), archive...)

	save, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if save.IsBinary() {
		t.Error("Compressed text save detected as binary")
	}
	if save.Len() != len(inner) {
		t.Errorf("Expected unwrapped body of %d bytes, got %d", len(inner), save.Len())
	}

	r, err := save.Sections(nil)
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	obj := parseNext(t, r, "test")
	if s, err := obj.GetString("b"); err != nil || s != "x" {
		t.Errorf("GetString(b) = %q, %v", s, err)
	}
	obj = parseNext(t, r, "second")
	if n, err := obj.GetInteger("c"); err != nil || n != 2 {
		t.Errorf("GetInteger(c) = %d, %v", n, err)
	}
}

func TestFromBytes_ZipErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"wrong entry name", buildArchive(t, "other", []byte("test={}")), "unexpected entry name"},
		{"directory entry", buildArchive(t, "gamestate/", nil), "directory"},
		{"corrupt archive", []byte("PK\x03\x04 not a real archive"), "bad archive"},
		{"too small", []byte("ab"), "too small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(tt.data)
			var contErr *ContainerError
			if !errors.As(err, &contErr) {
				t.Fatalf("Expected *ContainerError, got %v", err)
			}
			if !strings.Contains(contErr.Error(), tt.want) {
				t.Errorf("Expected %q in error, got %q", tt.want, contErr.Error())
			}
		})
	}
}

// ============================================================
// Binary saves
// ============================================================

func bin16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }

func bin32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func binI32(v int32) []byte { return bin32(uint32(v)) }

func binJoin(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func binQuotedStr(s string) []byte {
	return binJoin(bin16(0x000F), bin16(uint16(len(s))), []byte(s))
}

// binarySave is the binary spelling of binarySaveAsText below. Its first
// four bytes double as the encoding magic: an id resolving to "ironman"
// followed by the assign control.
func binarySave() []byte {
	return binJoin(
		[]byte("U1\x01\x00"),
		bin16(0x000E), []byte{1}, // yes
		bin16(0x1000), bin16(0x0001), bin16(0x0003), // test = {
		bin16(0x1001), bin16(0x0001), bin16(0x000C), binI32(5), // a = i32 5
		bin16(0x1002), bin16(0x0001), binQuotedStr("x"), // b = "x"
		bin16(0x1003), bin16(0x0001), bin16(0x0014), bin32(70000), // c = u32 70000
		bin16(0x1004), bin16(0x0001), bin16(0x000D), binI32(-1500), // d = f32 -1.5
		bin16(0x1005), bin16(0x0001), bin16(0x000E), []byte{1}, // e = yes
		bin16(0x1006), bin16(0x0001), // color =
		bin16(0x0243), bin16(0x0003), // rgb {
		bin16(0x0014), bin32(1),
		bin16(0x0014), bin32(2),
		bin16(0x0014), bin32(3),
		bin16(0x0004), // }
		bin16(0x0004), // }
	)
}

const binarySaveAsText = `
	ironman=yes
	test={
		a=5
		b="x"
		c=70000
		d=-1.5
		e=yes
		color=rgb { 1 2 3 }
	}
`

func binaryResolver() *tape.TableResolver {
	return tape.NewTableResolver(map[uint16]string{
		0x3155: "ironman",
		0x1000: "test",
		0x1001: "a",
		0x1002: "b",
		0x1003: "c",
		0x1004: "d",
		0x1005: "e",
		0x1006: "color",
	})
}

func TestFromBytes_BinaryDetection(t *testing.T) {
	save, err := FromBytes(binarySave())
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if !save.IsBinary() {
		t.Fatal("Binary save not detected")
	}

	if _, err := save.Sections(nil); err == nil {
		t.Error("Expected error for binary save without resolver")
	}
	if _, err := save.Sections(tape.NewTableResolver(nil)); err == nil {
		t.Error("Expected error for binary save with empty resolver")
	}
	if _, err := save.Sections(binaryResolver()); err != nil {
		t.Errorf("Sections with resolver failed: %v", err)
	}
}

func TestBinarySave_MatchesTextForm(t *testing.T) {
	binSave, err := FromBytes(binarySave())
	if err != nil {
		t.Fatalf("FromBytes binary failed: %v", err)
	}
	binReader, err := binSave.Sections(binaryResolver())
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	binValue, err := nextSection(t, binReader).Parse()
	if err != nil {
		t.Fatalf("Parse binary section failed: %v", err)
	}

	textReader := textSections(binarySaveAsText)
	textValue, err := nextSection(t, textReader).Parse()
	if err != nil {
		t.Fatalf("Parse text section failed: %v", err)
	}

	if !binValue.Equal(textValue) {
		t.Error("Binary and text decodings disagree")
	}
	if diff := cmp.Diff(textReader.Attributes(), binReader.Attributes()); diff != "" {
		t.Errorf("Attributes mismatch (-text +binary):\n%s", diff)
	}
}

func TestBinarySave_UnknownToken(t *testing.T) {
	resolver := binaryResolver()

	t.Run("at root", func(t *testing.T) {
		data := binJoin(bin16(0x0BAD), bin16(0x0001), bin16(0x000C), bin32(1))
		r := newSectionReader(tape.NewBinaryReader(data), resolver)
		_, err := r.Next()
		var tokErr *UnknownTokenError
		if !errors.As(err, &tokErr) {
			t.Fatalf("Expected *UnknownTokenError, got %v", err)
		}
		if tokErr.ID != 0x0BAD {
			t.Errorf("Expected id 0x0BAD, got 0x%04X", tokErr.ID)
		}
	})

	t.Run("inside section", func(t *testing.T) {
		data := binJoin(
			bin16(0x1000), bin16(0x0001), bin16(0x0003), // test = {
			bin16(0x0BAD), bin16(0x0001), bin16(0x000C), bin32(1),
			bin16(0x0004),
		)
		r := newSectionReader(tape.NewBinaryReader(data), resolver)
		_, err := nextSection(t, r).Parse()
		var tokErr *UnknownTokenError
		if !errors.As(err, &tokErr) {
			t.Fatalf("Expected *UnknownTokenError, got %v", err)
		}
	})
}

// ============================================================
// Whole file plumbing
// ============================================================

func TestRead_PropagatesFailure(t *testing.T) {
	_, err := Read(&failingReader{})
	if err == nil {
		t.Fatal("Expected error from failing reader")
	}
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open("testdata/does-not-exist.ck3"); err == nil {
		t.Fatal("Expected error for missing file")
	}
}
