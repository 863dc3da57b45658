// Package savefile reads Clausewitz-style game save files.
//
// A save on disk is either a raw serialization or a ZIP archive holding a
// single "gamestate" entry; the serialization itself is either text or
// binary encoded. Both axes are detected automatically:
//   - "PK\x03\x04" in the buffer marks a ZIP container
//   - "U1\x01\x00" marks the binary encoding
//
// # Reading
//
// A SaveFile hands out SectionReaders; a reader yields named top-level
// sections in file order. Each section is consumed exactly once,
// either skipped in O(size) without allocation or parsed into a Value
// tree:
//
//	save, err := savefile.Open("ironman.ck3")
//	sections, err := save.Sections(resolver)
//	for {
//		sec, err := sections.Next()
//		if err == io.EOF {
//			break
//		}
//		if sec.Name() != "meta_data" {
//			sec.Skip()
//			continue
//		}
//		meta, err := sec.Parse()
//		...
//	}
//
// # Value Model
//
// The format does not distinguish arrays from maps syntactically; a
// container is whichever its contents decide. Values are a closed union of
// String, Integer, Real, Boolean, Date and Object, with loose coercions
// (integers widen to reals, integers decode to binary dates) exposed
// through the As* accessors. A key that appears several times in one
// container coalesces into an array under that key, order preserved.
package savefile
