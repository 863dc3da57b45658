package gamestate

import (
	"github.com/ck3tools/ck3save/savefile"
)

// Artifact is one artifact in somebody's inventory.
type Artifact struct {
	Name        string
	Description string
	Type        string
	Rarity      string
	Quality     uint32
	Wealth      uint32
	Owner       *Entity[Character]
	History     []ArtifactHistory
}

// ArtifactHistory is one provenance entry of an artifact.
type ArtifactHistory struct {
	Type      string
	Date      savefile.Date
	Actor     *Entity[Character]
	Recipient *Entity[Character]
}

func (g *GameState) newArtifact(obj *savefile.Object) (*Artifact, error) {
	a := &Artifact{}
	var err error
	if a.Name, err = obj.GetString("name"); err != nil {
		return nil, err
	}
	if a.Description, err = obj.GetString("description"); err != nil {
		return nil, err
	}
	if a.Type, err = obj.GetString("type"); err != nil {
		return nil, err
	}
	if a.Rarity, err = obj.GetString("rarity"); err != nil {
		return nil, err
	}
	if v := opt(obj, "quality"); v != nil {
		n, err := v.AsInteger()
		if err != nil {
			return nil, err
		}
		a.Quality = uint32(n)
	}
	if v := opt(obj, "wealth"); v != nil {
		n, err := v.AsInteger()
		if err != nil {
			return nil, err
		}
		a.Wealth = uint32(n)
	}
	owner, err := obj.GetID("owner")
	if err != nil {
		return nil, err
	}
	a.Owner = g.characters.GetOrCreate(owner)
	if v := opt(obj, "history"); v != nil {
		if a.History, err = g.artifactHistory(v); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (g *GameState) artifactHistory(v *savefile.Value) ([]ArtifactHistory, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	if obj.IsArray() {
		return nil, nil
	}
	entries := opt(obj, "entries")
	if entries == nil {
		return nil, nil
	}
	list, err := entries.AsObject()
	if err != nil {
		return nil, err
	}
	var out []ArtifactHistory
	for _, item := range list.Items() {
		event, err := item.AsObject()
		if err != nil {
			return nil, err
		}
		entry := ArtifactHistory{}
		if entry.Type, err = event.GetString("type"); err != nil {
			return nil, err
		}
		if entry.Date, err = event.GetDate("date"); err != nil {
			return nil, err
		}
		if v := opt(event, "actor"); v != nil {
			id, err := v.AsID()
			if err != nil {
				return nil, err
			}
			entry.Actor = g.characters.GetOrCreate(id)
		}
		if v := opt(event, "recipient"); v != nil {
			id, err := v.AsID()
			if err != nil {
				return nil, err
			}
			entry.Recipient = g.characters.GetOrCreate(id)
		}
		out = append(out, entry)
	}
	return out, nil
}
