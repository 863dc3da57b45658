package gamestate

import (
	"strings"

	"github.com/ck3tools/ck3save/savefile"
)

// Faith is one faith of a religion.
type Faith struct {
	Name string
	// Doctrines holds the plain doctrine keys; keys naming a tenet are
	// split off into Tenets.
	Tenets    []string
	Doctrines []string
	// Head is the religious-head title, not its holder.
	Head   *Entity[Title]
	Fervor float64
	Color  Color
}

func (g *GameState) newFaith(obj *savefile.Object) (*Faith, error) {
	f := &Faith{}
	doctrine, err := obj.Get("doctrine")
	if err != nil {
		return nil, err
	}
	keys, err := stringList(doctrine)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if strings.Contains(key, "tenet") {
			f.Tenets = append(f.Tenets, key)
		} else {
			f.Doctrines = append(f.Doctrines, key)
		}
	}
	name := opt(obj, "name")
	if name == nil {
		if f.Name, err = obj.GetString("template"); err != nil {
			return nil, err
		}
	} else if f.Name, err = name.AsString(); err != nil {
		return nil, err
	}
	if f.Fervor, err = obj.GetReal("fervor"); err != nil {
		return nil, err
	}
	if v := opt(obj, "religious_head"); v != nil {
		id, err := v.AsID()
		if err != nil {
			return nil, err
		}
		f.Head = g.titles.GetOrCreate(id)
	}
	if v := opt(obj, "color"); v != nil {
		if f.Color, err = colorFrom(v); err != nil {
			return nil, err
		}
	}
	return f, nil
}
