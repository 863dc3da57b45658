package gamestate

import (
	"github.com/ck3tools/ck3save/savefile"
)

// Player is one played character slot.
type Player struct {
	Name      string
	Character *Entity[Character]
	// Lineage holds one node per ruler played in this slot, oldest
	// first.
	Lineage []LineageNode
}

// LineageNode is one legacy entry of a played line.
type LineageNode struct {
	Character *Entity[Character]
	Date      savefile.Date
	Score     int64
	Prestige  int64
	Piety     int64
	Dread     float64
	Lifestyle string
	Perks     []string
}

func (g *GameState) newPlayer(obj *savefile.Object) (*Player, error) {
	p := &Player{}
	var err error
	if p.Name, err = obj.GetString("name"); err != nil {
		return nil, err
	}
	id, err := obj.GetID("character")
	if err != nil {
		return nil, err
	}
	p.Character = g.characters.GetOrCreate(id)
	legacy, err := obj.GetObject("legacy")
	if err != nil {
		return nil, err
	}
	for _, item := range legacy.Items() {
		node, err := item.AsObject()
		if err != nil {
			return nil, err
		}
		entry, err := g.newLineageNode(node)
		if err != nil {
			return nil, err
		}
		p.Lineage = append(p.Lineage, entry)
	}
	return p, nil
}

func (g *GameState) newLineageNode(obj *savefile.Object) (LineageNode, error) {
	node := LineageNode{}
	id, err := obj.GetID("character")
	if err != nil {
		return LineageNode{}, err
	}
	node.Character = g.characters.GetOrCreate(id)
	if node.Date, err = obj.GetDate("date"); err != nil {
		return LineageNode{}, err
	}
	if v := opt(obj, "score"); v != nil {
		if node.Score, err = v.AsInteger(); err != nil {
			return LineageNode{}, err
		}
	}
	if v := opt(obj, "prestige"); v != nil {
		if node.Prestige, err = v.AsInteger(); err != nil {
			return LineageNode{}, err
		}
	}
	if v := opt(obj, "piety"); v != nil {
		if node.Piety, err = v.AsInteger(); err != nil {
			return LineageNode{}, err
		}
	}
	if v := opt(obj, "dread"); v != nil {
		if node.Dread, err = v.AsReal(); err != nil {
			return LineageNode{}, err
		}
	}
	if v := opt(obj, "lifestyle"); v != nil {
		if node.Lifestyle, err = v.AsString(); err != nil {
			return LineageNode{}, err
		}
	}
	// Old saves stored a single perk, newer ones a list.
	if v := opt(obj, "perk"); v != nil {
		if v.Kind() == savefile.KindObject {
			if node.Perks, err = stringList(v); err != nil {
				return LineageNode{}, err
			}
		} else {
			perk, err := v.AsString()
			if err != nil {
				return LineageNode{}, err
			}
			node.Perks = []string{perk}
		}
	}
	return node, nil
}
