package gamestate

import (
	"github.com/ck3tools/ck3save/savefile"
)

// Color is an r/g/b triple the way map colors are stored.
type Color struct {
	R, G, B uint8
}

// colorFrom reads a color triple. Channels are 0..255 in most saves;
// triples whose channels all sit in 0..1 are scaled up.
func colorFrom(v *savefile.Value) (Color, error) {
	obj, err := v.AsObject()
	if err != nil {
		return Color{}, err
	}
	if !obj.IsArray() || obj.Len() < 3 {
		return Color{}, &savefile.ConversionError{Want: "color triple", Got: "object"}
	}
	var ch [3]float64
	for i := range ch {
		item, err := obj.Index(i)
		if err != nil {
			return Color{}, err
		}
		if ch[i], err = item.AsReal(); err != nil {
			return Color{}, err
		}
	}
	if ch[0] <= 1 && ch[1] <= 1 && ch[2] <= 1 {
		for i := range ch {
			ch[i] *= 255
		}
	}
	return Color{R: clampChannel(ch[0]), G: clampChannel(ch[1]), B: clampChannel(ch[2])}, nil
}

func clampChannel(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}
