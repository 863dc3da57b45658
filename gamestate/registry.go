package gamestate

import "slices"

// Entity is one identity of kind T in the game world. Saves refer to
// entities long before, and sometimes without ever, defining them; an
// Entity therefore starts as a bare placeholder and gains its payload
// when the defining section lands.
type Entity[T any] struct {
	id   uint64
	data *T
}

// ID returns the save-wide identifier.
func (e *Entity[T]) ID() uint64 { return e.id }

// Data returns the payload, or nil while the entity is only referenced.
// A nil payload means the save never defined the id; dangling
// references are normal in pruned saves.
func (e *Entity[T]) Data() *T { return e.data }

// Registry holds every entity of one kind, keyed by id. Handles are
// stable: every lookup of the same id returns the same pointer, so a
// payload written through one reference is visible through all.
type Registry[T any] struct {
	byID  map[uint64]*Entity[T]
	order []uint64
}

func newRegistry[T any]() *Registry[T] {
	return &Registry[T]{byID: make(map[uint64]*Entity[T])}
}

// GetOrCreate returns the entity with the given id, creating a
// placeholder when the id is new.
func (r *Registry[T]) GetOrCreate(id uint64) *Entity[T] {
	if e, ok := r.byID[id]; ok {
		return e
	}
	e := &Entity[T]{id: id}
	r.byID[id] = e
	r.order = append(r.order, id)
	return e
}

// Get returns the entity with the given id if any define or reference
// has mentioned it.
func (r *Registry[T]) Get(id uint64) (*Entity[T], bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Define builds the payload for id and attaches it to the entity's
// handle. Defining an id again replaces the payload; the handle stays.
// When build fails the entity keeps whatever it had before, so a
// failed redefinition does not tear down an earlier good one.
func (r *Registry[T]) Define(id uint64, build func() (*T, error)) error {
	e := r.GetOrCreate(id)
	data, err := build()
	if err != nil {
		return err
	}
	e.data = data
	return nil
}

// Len returns the number of entities, placeholders included.
func (r *Registry[T]) Len() int { return len(r.byID) }

// IDs returns every id in first-mention order.
func (r *Registry[T]) IDs() []uint64 { return slices.Clone(r.order) }

// All returns every entity in first-mention order.
func (r *Registry[T]) All() []*Entity[T] {
	out := make([]*Entity[T], len(r.order))
	for i, id := range r.order {
		out[i] = r.byID[id]
	}
	return out
}

// refs resolves a list of ids against one registry.
func refs[T any](r *Registry[T], ids []uint64) []*Entity[T] {
	out := make([]*Entity[T], len(ids))
	for i, id := range ids {
		out[i] = r.GetOrCreate(id)
	}
	return out
}
