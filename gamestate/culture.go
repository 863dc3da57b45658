package gamestate

import (
	"github.com/ck3tools/ck3save/savefile"
)

// Culture is one culture, possibly a hybrid or divergence of others.
type Culture struct {
	Name          string
	Ethos         string
	Heritage      string
	MartialCustom string
	Language      string
	Created       savefile.Date
	Parents       []*Entity[Culture]
	Traditions    []string
	Color         Color
}

func (g *GameState) newCulture(obj *savefile.Object) (*Culture, error) {
	c := &Culture{}
	var err error
	if v := opt(obj, "parents"); v != nil {
		ids, err := idList(v)
		if err != nil {
			return nil, err
		}
		c.Parents = refs(g.cultures, ids)
	}
	if v := opt(obj, "traditions"); v != nil {
		if c.Traditions, err = stringList(v); err != nil {
			return nil, err
		}
	}
	if c.Name, err = obj.GetString("name"); err != nil {
		return nil, err
	}
	// Cultures created in a hybridization event have no ethos.
	if v := opt(obj, "ethos"); v != nil {
		if c.Ethos, err = v.AsString(); err != nil {
			return nil, err
		}
	}
	if c.Heritage, err = obj.GetString("heritage"); err != nil {
		return nil, err
	}
	if c.MartialCustom, err = obj.GetString("martial_custom"); err != nil {
		return nil, err
	}
	if v := opt(obj, "created"); v != nil {
		if c.Created, err = v.AsDate(); err != nil {
			return nil, err
		}
	}
	if c.Language, err = obj.GetString("language"); err != nil {
		return nil, err
	}
	if v := opt(obj, "color"); v != nil {
		if c.Color, err = colorFrom(v); err != nil {
			return nil, err
		}
	}
	return c, nil
}
