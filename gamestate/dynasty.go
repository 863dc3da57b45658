package gamestate

import (
	"strconv"
	"strings"

	"github.com/ck3tools/ck3save/savefile"
)

// Perk is one legacy track of a dynasty with the highest unlocked
// level.
type Perk struct {
	Track string
	Level int
}

// Dynasty is a family line spanning one or more houses.
type Dynasty struct {
	Name   string
	Parent *Entity[Dynasty]

	// Prestige is the spendable renown; TotalPrestige the lifetime
	// accumulation.
	Prestige      float64
	TotalPrestige float64

	Perks   []Perk
	Leaders []*Entity[Character]
	// Houses is filled at finalize time from each house's parent ref.
	Houses    []*Entity[House]
	FoundDate savefile.Date
}

func (g *GameState) newDynasty(obj *savefile.Object) (*Dynasty, error) {
	d := &Dynasty{}
	var err error
	if v := opt(obj, "perk"); v != nil {
		if d.Perks, err = parsePerks(v); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "historical"); v != nil {
		ids, err := idList(v)
		if err != nil {
			return nil, err
		}
		d.Leaders = refs(g.characters, ids)
	}
	if v := opt(obj, "prestige"); v != nil {
		o, err := v.AsObject()
		if err != nil {
			return nil, err
		}
		if d.TotalPrestige, err = currencyAmount(o, "accumulated"); err != nil {
			return nil, err
		}
		if d.Prestige, err = currencyAmount(o, "currency"); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "dynasty"); v != nil {
		id, err := v.AsID()
		if err != nil {
			return nil, err
		}
		d.Parent = g.dynasties.GetOrCreate(id)
	}
	name := opt(obj, "name")
	if name == nil {
		name = opt(obj, "localized_name")
	}
	if name != nil {
		if d.Name, err = name.AsString(); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "found_date"); v != nil {
		if d.FoundDate, err = v.AsDate(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// parsePerks folds perk keys of the form track_level, keeping the
// highest level seen per track. Keys without a level suffix are
// ignored.
func parsePerks(v *savefile.Value) ([]Perk, error) {
	keys, err := stringList(v)
	if err != nil {
		return nil, err
	}
	var perks []Perk
next:
	for _, key := range keys {
		cut := strings.LastIndexByte(key, '_')
		if cut < 0 {
			continue
		}
		level, err := strconv.Atoi(key[cut+1:])
		if err != nil {
			return nil, err
		}
		track := key[:cut]
		for i := range perks {
			if perks[i].Track == track {
				if perks[i].Level < level {
					perks[i].Level = level
				}
				continue next
			}
		}
		perks = append(perks, Perk{Track: track, Level: level})
	}
	return perks, nil
}
