package gamestate

import (
	"slices"
	"strconv"

	"github.com/ck3tools/ck3save/savefile"
)

// House is one dynastic house within a dynasty.
type House struct {
	Name    string
	Dynasty *Entity[Dynasty]
	Leaders []*Entity[Character]

	// Motto is the house motto key; older saves store variables that
	// the localized motto text splices in.
	Motto          string
	MottoVariables map[int64]string

	FoundDate savefile.Date
}

// houseName falls back from name through localized_name to the
// definition key, which historic houses store as a bare integer.
func houseName(obj *savefile.Object) (string, error) {
	name := opt(obj, "name")
	if name == nil {
		name = opt(obj, "localized_name")
	}
	if name != nil {
		return name.AsString()
	}
	key, err := obj.Get("key")
	if err != nil {
		return "", err
	}
	if key.Kind() == savefile.KindInteger {
		n, err := key.AsInteger()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	}
	return key.AsString()
}

func (g *GameState) newHouse(obj *savefile.Object) (*House, error) {
	h := &House{}
	var err error
	if h.Name, err = houseName(obj); err != nil {
		return nil, err
	}
	dynasty, err := obj.GetID("dynasty")
	if err != nil {
		return nil, err
	}
	h.Dynasty = g.dynasties.GetOrCreate(dynasty)
	if v := opt(obj, "found_date"); v != nil {
		if h.FoundDate, err = v.AsDate(); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "motto"); v != nil {
		if err := readMotto(h, v); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "historical"); v != nil {
		ids, err := idList(v)
		if err != nil {
			return nil, err
		}
		h.Leaders = refs(g.characters, ids)
	}
	if v := opt(obj, "head_of_house"); v != nil {
		id, err := v.AsID()
		if err != nil {
			return nil, err
		}
		head := g.characters.GetOrCreate(id)
		if !slices.Contains(h.Leaders, head) {
			h.Leaders = append(h.Leaders, head)
		}
	}
	return h, nil
}

// readMotto handles both motto forms: a bare key, or an object pairing
// the key with substitution variables.
func readMotto(h *House, v *savefile.Value) error {
	if v.Kind() != savefile.KindObject {
		var err error
		h.Motto, err = v.AsString()
		return err
	}
	obj, err := v.AsObject()
	if err != nil {
		return err
	}
	if h.Motto, err = obj.GetString("key"); err != nil {
		return err
	}
	vars, err := obj.GetObject("variables")
	if err != nil {
		return err
	}
	h.MottoVariables = make(map[int64]string, vars.Len())
	for _, item := range vars.Items() {
		pair, err := item.AsObject()
		if err != nil {
			return err
		}
		key, err := pair.GetInteger("key")
		if err != nil {
			return err
		}
		value, err := pair.GetString("value")
		if err != nil {
			return err
		}
		h.MottoVariables[key] = value
	}
	return nil
}
