package gamestate

import (
	"fmt"
	"slices"

	"github.com/ck3tools/ck3save/savefile"
)

// Character is one person, living or dead.
type Character struct {
	Name        string
	Nickname    string
	Birth       savefile.Date
	Female      bool
	Alive       bool
	DeathDate   savefile.Date
	DeathReason string
	DNA         string

	Faith   *Entity[Faith]
	Culture *Entity[Culture]
	House   *Entity[House]

	Skills          []int8
	Traits          []string
	RecessiveTraits []string
	Languages       []string

	Spouses       []*Entity[Character]
	FormerSpouses []*Entity[Character]
	Children      []*Entity[Character]
	// Parents is the reciprocal of Children, filled at finalize time.
	Parents []*Entity[Character]
	Kills   []*Entity[Character]
	Liege   *Entity[Character]

	Titles    []*Entity[Title]
	Contracts []*Entity[Contract]
	Memories  []*Entity[Memory]
	Artifacts []*Entity[Artifact]

	Gold     float64
	Piety    float64
	Prestige float64
	Dread    float64
	Strength float64
}

// traitList maps an array of trait indices through the lookup table.
func (g *GameState) traitList(v *savefile.Value) ([]string, error) {
	idxs, err := intList(v)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		name, ok := g.TraitName(int(idx))
		if !ok {
			return nil, fmt.Errorf("trait index %d outside the lookup table", idx)
		}
		names = append(names, name)
	}
	return names, nil
}

func (g *GameState) newCharacter(id uint64, obj *savefile.Object) (*Character, error) {
	c := &Character{Alive: true}
	var err error
	if v := opt(obj, "female"); v != nil {
		if c.Female, err = v.AsBoolean(); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "dead_data"); v != nil {
		c.Alive = false
		dead, err := v.AsObject()
		if err != nil {
			return nil, err
		}
		if c.DeathDate, err = dead.GetDate("date"); err != nil {
			return nil, err
		}
		if v := opt(dead, "reason"); v != nil {
			if c.DeathReason, err = v.AsString(); err != nil {
				return nil, err
			}
		}
		if v := opt(dead, "domain"); v != nil {
			ids, err := idList(v)
			if err != nil {
				return nil, err
			}
			c.Titles = append(c.Titles, refs(g.titles, ids)...)
		}
		if v := opt(dead, "liege"); v != nil {
			liege, err := v.AsID()
			if err != nil {
				return nil, err
			}
			// A handful of top lieges are recorded as their own liege.
			if liege != id {
				c.Liege = g.characters.GetOrCreate(liege)
			}
		}
	}
	skill, err := obj.Get("skill")
	if err != nil {
		return nil, err
	}
	levels, err := intList(skill)
	if err != nil {
		return nil, err
	}
	c.Skills = make([]int8, len(levels))
	for i, n := range levels {
		c.Skills[i] = int8(n)
	}
	if v := opt(obj, "family_data"); v != nil {
		fam, err := v.AsObject()
		if err != nil {
			return nil, err
		}
		if v := opt(fam, "former_spouses"); v != nil {
			ids, err := idList(v)
			if err != nil {
				return nil, err
			}
			c.FormerSpouses = refs(g.characters, ids)
		}
		if v := opt(fam, "spouse"); v != nil {
			var ids []uint64
			if v.Kind() == savefile.KindObject {
				if ids, err = idList(v); err != nil {
					return nil, err
				}
			} else {
				sid, err := v.AsID()
				if err != nil {
					return nil, err
				}
				ids = []uint64{sid}
			}
			for _, sid := range ids {
				spouse := g.characters.GetOrCreate(sid)
				if !slices.Contains(c.FormerSpouses, spouse) {
					c.Spouses = append(c.Spouses, spouse)
				}
			}
		}
		if v := opt(fam, "primary_spouse"); v != nil {
			sid, err := v.AsID()
			if err != nil {
				return nil, err
			}
			spouse := g.characters.GetOrCreate(sid)
			if !slices.Contains(c.Spouses, spouse) {
				c.Spouses = append(c.Spouses, spouse)
			}
		}
		if v := opt(fam, "child"); v != nil {
			ids, err := idList(v)
			if err != nil {
				return nil, err
			}
			c.Children = refs(g.characters, ids)
		}
	}
	if v := opt(obj, "dna"); v != nil {
		if c.DNA, err = v.AsString(); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "traits"); v != nil {
		if c.Traits, err = g.traitList(v); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "recessive_traits"); v != nil {
		if c.RecessiveTraits, err = g.traitList(v); err != nil {
			return nil, err
		}
	}
	if c.Alive {
		if err := g.readAliveData(c, obj); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "landed_data"); v != nil {
		landed, err := v.AsObject()
		if err != nil {
			return nil, err
		}
		if v := opt(landed, "dread"); v != nil {
			if c.Dread, err = v.AsReal(); err != nil {
				return nil, err
			}
		}
		if v := opt(landed, "strength"); v != nil {
			if c.Strength, err = v.AsReal(); err != nil {
				return nil, err
			}
		}
		if v := opt(landed, "domain"); v != nil {
			ids, err := idList(v)
			if err != nil {
				return nil, err
			}
			c.Titles = append(c.Titles, refs(g.titles, ids)...)
		}
		if v := opt(landed, "vassal_contracts"); v != nil {
			ids, err := idList(v)
			if err != nil {
				return nil, err
			}
			c.Contracts = refs(g.contracts, ids)
		}
	}
	if c.Name, err = obj.GetString("first_name"); err != nil {
		return nil, err
	}
	if v := opt(obj, "nickname_text"); v != nil {
		if c.Nickname, err = v.AsString(); err != nil {
			return nil, err
		}
	} else if v := opt(obj, "nickname"); v != nil {
		if c.Nickname, err = v.AsString(); err != nil {
			return nil, err
		}
	}
	if c.Birth, err = obj.GetDate("birth"); err != nil {
		return nil, err
	}
	if v := opt(obj, "dynasty_house"); v != nil {
		hid, err := v.AsID()
		if err != nil {
			return nil, err
		}
		c.House = g.houses.GetOrCreate(hid)
	}
	if v := opt(obj, "faith"); v != nil {
		fid, err := v.AsID()
		if err != nil {
			return nil, err
		}
		c.Faith = g.faiths.GetOrCreate(fid)
	}
	if v := opt(obj, "culture"); v != nil {
		cid, err := v.AsID()
		if err != nil {
			return nil, err
		}
		c.Culture = g.cultures.GetOrCreate(cid)
	}
	return c, nil
}

// readAliveData fills the fields only living characters carry.
func (g *GameState) readAliveData(c *Character, obj *savefile.Object) error {
	v := opt(obj, "alive_data")
	if v == nil {
		return nil
	}
	alive, err := v.AsObject()
	if err != nil {
		return err
	}
	if v := opt(alive, "piety"); v != nil {
		o, err := v.AsObject()
		if err != nil {
			return err
		}
		if c.Piety, err = currencyAmount(o, "accumulated"); err != nil {
			return err
		}
	}
	if v := opt(alive, "prestige"); v != nil {
		o, err := v.AsObject()
		if err != nil {
			return err
		}
		if c.Prestige, err = currencyAmount(o, "accumulated"); err != nil {
			return err
		}
	}
	if v := opt(alive, "gold"); v != nil {
		if c.Gold, err = v.AsReal(); err != nil {
			return err
		}
	}
	if v := opt(alive, "kills"); v != nil {
		ids, err := idList(v)
		if err != nil {
			return err
		}
		c.Kills = refs(g.characters, ids)
	}
	if v := opt(alive, "languages"); v != nil {
		if c.Languages, err = stringList(v); err != nil {
			return err
		}
	}
	if v := opt(alive, "perks"); v != nil {
		perks, err := stringList(v)
		if err != nil {
			return err
		}
		c.Traits = append(c.Traits, perks...)
	}
	if v := opt(alive, "memories"); v != nil {
		ids, err := idList(v)
		if err != nil {
			return err
		}
		c.Memories = refs(g.memories, ids)
	}
	if v := opt(alive, "inventory"); v != nil {
		inv, err := v.AsObject()
		if err != nil {
			return err
		}
		if v := opt(inv, "artifacts"); v != nil {
			ids, err := idList(v)
			if err != nil {
				return err
			}
			c.Artifacts = refs(g.artifacts, ids)
		}
	}
	return nil
}
