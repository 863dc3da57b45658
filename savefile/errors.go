package savefile

import "fmt"

// ContainerError reports a save that could not be unwrapped: a malformed
// archive, a wrong entry name, or an unreadable encoding.
type ContainerError struct {
	Reason string
}

func (e *ContainerError) Error() string {
	return "savefile: " + e.Reason
}

// SectionError reports a structural desync between the token stream and
// the section grammar. The cursor cannot be trusted afterwards, so these
// abort the whole ingestion.
type SectionError struct {
	Section string // section name, when one was established
	Offset  int64
	Reason  string
}

func (e *SectionError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("savefile: section %s: %s at offset %d", e.Section, e.Reason, e.Offset)
	}
	return fmt.Sprintf("savefile: %s at offset %d", e.Reason, e.Offset)
}

// UnknownTokenError reports a binary dictionary id with no entry in the
// resolver. The literal text is unrecoverable without one.
type UnknownTokenError struct {
	ID     uint16
	Offset int64
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("savefile: unknown token 0x%04X at offset %d", e.ID, e.Offset)
}

// ConversionError reports a value accessed as a kind it cannot coerce to.
type ConversionError struct {
	Want string
	Got  string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("savefile: cannot convert %s to %s", e.Got, e.Want)
}

// KeyError reports a missing map key or an array index out of range.
type KeyError struct {
	Key     string
	Index   int
	Len     int
	indexed bool
}

func (e *KeyError) Error() string {
	if e.indexed {
		return fmt.Sprintf("savefile: index %d out of range (len %d)", e.Index, e.Len)
	}
	return fmt.Sprintf("savefile: missing key %q", e.Key)
}

// ShapeError reports a container mixing anonymous values with non-numeric
// keys. The format gives such a container no defined shape, so it is
// rejected rather than guessed at.
type ShapeError struct {
	Key string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("savefile: cannot merge keyed entry %q into an array", e.Key)
}
