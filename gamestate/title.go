package gamestate

import (
	"fmt"
	"slices"

	"github.com/ck3tools/ck3save/savefile"
)

// Title is one landed title, from barony up to empire.
type Title struct {
	// Key is the definition key, c_derby style. The leading letter
	// grades the tier: b, c, d, k, e.
	Key  string
	Name string

	DeJureLiege  *Entity[Title]
	DeFactoLiege *Entity[Title]
	// Vassal lists are the reciprocals of the liege refs, filled at
	// finalize time.
	DeJureVassals  []*Entity[Title]
	DeFactoVassals []*Entity[Title]

	History []TitleHistory
	Capital *Entity[Title]
	Color   Color

	// Faith and Culture are set on county titles from the county
	// association at finalize time.
	Faith   *Entity[Faith]
	Culture *Entity[Culture]
}

// TitleHistory is one dated event in a title's past.
type TitleHistory struct {
	Date   savefile.Date
	Holder *Entity[Character]
	Action string
}

// Holder returns the character installed by the latest history entry,
// or nil when the title has no recorded holder.
func (t *Title) Holder() *Entity[Character] {
	if len(t.History) == 0 {
		return nil
	}
	return t.History[len(t.History)-1].Holder
}

func (g *GameState) newTitle(obj *savefile.Object) (*Title, error) {
	t := &Title{}
	var err error
	if t.Name, err = obj.GetString("name"); err != nil {
		return nil, err
	}
	if v := opt(obj, "key"); v != nil {
		if t.Key, err = v.AsString(); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "de_jure_liege"); v != nil {
		id, err := v.AsID()
		if err != nil {
			return nil, err
		}
		t.DeJureLiege = g.titles.GetOrCreate(id)
	}
	if v := opt(obj, "de_facto_liege"); v != nil {
		id, err := v.AsID()
		if err != nil {
			return nil, err
		}
		t.DeFactoLiege = g.titles.GetOrCreate(id)
	}
	if v := opt(obj, "capital"); v != nil {
		id, err := v.AsID()
		if err != nil {
			return nil, err
		}
		t.Capital = g.titles.GetOrCreate(id)
	}
	if v := opt(obj, "color"); v != nil {
		if t.Color, err = colorFrom(v); err != nil {
			return nil, err
		}
	}
	if v := opt(obj, "history"); v != nil {
		if t.History, err = g.titleHistory(v); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// titleHistory reads a title's history map. Keys are dates; a value is
// either a bare holder id (an inheritance), one event object, or an
// array of event objects sharing the date.
func (g *GameState) titleHistory(v *savefile.Value) ([]TitleHistory, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	var out []TitleHistory
	for _, ent := range obj.Entries() {
		date, ok := savefile.ParseDate(ent.Key)
		if !ok {
			return nil, fmt.Errorf("history key %q is not a date", ent.Key)
		}
		if ent.Value.Kind() != savefile.KindObject {
			holder, err := ent.Value.AsID()
			if err != nil {
				return nil, err
			}
			out = append(out, TitleHistory{
				Date:   date,
				Holder: g.characters.GetOrCreate(holder),
				Action: "Inherited",
			})
			continue
		}
		events, err := ent.Value.AsObject()
		if err != nil {
			return nil, err
		}
		if !events.IsArray() {
			entry, err := g.titleEvent(date, events)
			if err != nil {
				return nil, err
			}
			out = append(out, entry)
			continue
		}
		for _, item := range events.Items() {
			event, err := item.AsObject()
			if err != nil {
				return nil, err
			}
			entry, err := g.titleEvent(date, event)
			if err != nil {
				return nil, err
			}
			out = append(out, entry)
		}
	}
	sortHistory(out)
	return out, nil
}

// sortHistory orders entries by date, keeping file order within one
// date.
func sortHistory(entries []TitleHistory) {
	slices.SortStableFunc(entries, func(a, b TitleHistory) int {
		if a.Date.Before(b.Date) {
			return -1
		}
		if b.Date.Before(a.Date) {
			return 1
		}
		return 0
	})
}

func (g *GameState) titleEvent(date savefile.Date, event *savefile.Object) (TitleHistory, error) {
	entry := TitleHistory{Date: date}
	var err error
	if entry.Action, err = event.GetString("type"); err != nil {
		return TitleHistory{}, err
	}
	if v := opt(event, "holder"); v != nil {
		id, err := v.AsID()
		if err != nil {
			return TitleHistory{}, err
		}
		entry.Holder = g.characters.GetOrCreate(id)
	}
	return entry, nil
}
