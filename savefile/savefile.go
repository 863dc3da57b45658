package savefile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"

	"github.com/ck3tools/ck3save/tape"
)

var (
	zipMagic    = []byte("PK\x03\x04")
	binaryMagic = []byte("U1\x01\x00")
)

// SaveFile holds a fully loaded save body, already unwrapped from its
// ZIP container when it had one.
type SaveFile struct {
	data   []byte
	binary bool
}

// Open loads the save at path.
func Open(path string) (*SaveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("savefile: open %q: %w", path, err)
	}
	return FromBytes(data)
}

// Read loads a save from r.
func Read(r io.Reader) (*SaveFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("savefile: read save: %w", err)
	}
	return FromBytes(data)
}

// FromBytes loads a save from an in-memory buffer. A ZIP container is
// detected by its magic anywhere in the buffer, since saves prefix the
// archive with a plain-text metadata block. The binary-encoding marker
// only counts when it appears before the archive.
func FromBytes(data []byte) (*SaveFile, error) {
	if len(data) < len(zipMagic) {
		return nil, &ContainerError{Reason: "save file is too small"}
	}
	zipAt := bytes.Index(data, zipMagic)
	binAt := bytes.Index(data, binaryMagic)
	binary := binAt >= 0 && (zipAt < 0 || binAt < zipAt)
	if zipAt >= 0 {
		inner, err := unwrapArchive(data)
		if err != nil {
			return nil, err
		}
		data = inner
	}
	return &SaveFile{data: data, binary: binary}, nil
}

// unwrapArchive extracts the gamestate entry. The zip reader locates the
// archive through its end-of-directory record, so leading metadata bytes
// do not disturb it.
func unwrapArchive(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ContainerError{Reason: fmt.Sprintf("bad archive: %v", err)}
	}
	if len(zr.File) == 0 {
		return nil, &ContainerError{Reason: "archive has no entries"}
	}
	entry := zr.File[0]
	if entry.FileInfo().IsDir() {
		return nil, &ContainerError{Reason: "save file is a directory"}
	}
	if entry.Name != "gamestate" {
		return nil, &ContainerError{Reason: fmt.Sprintf("unexpected entry name %q", entry.Name)}
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, &ContainerError{Reason: fmt.Sprintf("open gamestate: %v", err)}
	}
	defer rc.Close()
	inner, err := io.ReadAll(rc)
	if err != nil {
		return nil, &ContainerError{Reason: fmt.Sprintf("read gamestate: %v", err)}
	}
	if uint64(len(inner)) != entry.UncompressedSize64 {
		return nil, &ContainerError{Reason: "short gamestate read"}
	}
	return inner, nil
}

// IsBinary reports whether the save body uses the binary encoding.
func (s *SaveFile) IsBinary() bool { return s.binary }

// Len returns the size of the loaded save body in bytes.
func (s *SaveFile) Len() int { return len(s.data) }

// Sections returns a reader over the save's root containers. Binary
// saves need a token resolver; text saves ignore the argument.
func (s *SaveFile) Sections(resolver tape.Resolver) (*SectionReader, error) {
	if s.binary {
		if resolver == nil || resolver.Len() == 0 {
			return nil, &ContainerError{Reason: "binary save needs a token resolver"}
		}
		return newSectionReader(tape.NewBinaryReader(s.data), resolver), nil
	}
	return newSectionReader(tape.NewTextReader(s.data), resolver), nil
}
