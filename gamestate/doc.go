// Package gamestate ingests a parsed save into a typed object graph.
//
// A save defines tens of thousands of entities that refer to each other
// freely, in either direction, across section boundaries. The package
// resolves that with per-kind registries: the first mention of an id
// creates a placeholder handle, the defining section fills it in, and
// every reference obtained before or after points at the same handle.
// An id that is referenced but never defined stays a placeholder with a
// nil payload, which is a valid terminal state and never an error.
//
//	state, err := gamestate.LoadFile("ironman.ck3")
//	ruler, _ := state.Characters().Get(12345)
//	fmt.Println(ruler.Data().Name)
//
// Load walks the save's top-level sections once, dispatching on the
// fixed set of section names the graph is built from; everything else
// is skipped without parsing. After the walk a single finalization pass
// fills the relations only the referring side records: houses register
// with their dynasty, titles with their lieges, children with their
// parents, and county faith/culture lands on the county titles.
package gamestate
