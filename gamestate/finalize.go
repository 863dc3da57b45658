package gamestate

// finalize runs the cross-entity pass after the last section has been
// ingested. Conversions record only the referring side of a relation,
// since the referenced entity may not exist yet at that point; this
// pass writes the reciprocal sides. Placeholders that never received a
// payload are left untouched.
func (g *GameState) finalize() {
	for _, house := range g.houses.All() {
		h := house.Data()
		if h == nil || h.Dynasty == nil {
			continue
		}
		if d := h.Dynasty.Data(); d != nil {
			d.Houses = append(d.Houses, house)
		}
	}
	for _, title := range g.titles.All() {
		t := title.Data()
		if t == nil {
			continue
		}
		if t.DeJureLiege != nil && t.DeJureLiege != title {
			if l := t.DeJureLiege.Data(); l != nil {
				l.DeJureVassals = append(l.DeJureVassals, title)
			}
		}
		if t.DeFactoLiege != nil && t.DeFactoLiege != title {
			if l := t.DeFactoLiege.Data(); l != nil {
				l.DeFactoVassals = append(l.DeFactoVassals, title)
			}
		}
		if info, ok := g.countyData[t.Key]; ok {
			t.Faith = info.faith
			t.Culture = info.culture
		}
	}
	for _, parent := range g.characters.All() {
		c := parent.Data()
		if c == nil {
			continue
		}
		for _, child := range c.Children {
			if cc := child.Data(); cc != nil {
				cc.Parents = append(cc.Parents, parent)
			}
		}
	}
}
