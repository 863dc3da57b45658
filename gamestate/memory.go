package gamestate

import (
	"github.com/ck3tools/ck3save/savefile"
)

// Memory is one event a character remembers.
type Memory struct {
	Date savefile.Date
	Type string
	// Participants maps the role in the memory to the character who
	// filled it.
	Participants map[string]*Entity[Character]
}

func (g *GameState) newMemory(obj *savefile.Object) (*Memory, error) {
	m := &Memory{}
	var err error
	if m.Date, err = obj.GetDate("creation_date"); err != nil {
		return nil, err
	}
	if m.Type, err = obj.GetString("type"); err != nil {
		return nil, err
	}
	if v := opt(obj, "participants"); v != nil {
		parts, err := v.AsObject()
		if err != nil {
			return nil, err
		}
		m.Participants = make(map[string]*Entity[Character], parts.Len())
		for _, ent := range parts.Entries() {
			id, err := ent.Value.AsID()
			if err != nil {
				return nil, err
			}
			m.Participants[ent.Key] = g.characters.GetOrCreate(id)
		}
	}
	return m, nil
}
