package armor

import (
	"strconv"

	"github.com/erazemk/armory/internal/model"
)

// PieceView is one armor piece as shown to a user.
type PieceView struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	SetCode  model.ArmorSet `json:"set_code,omitempty"`
	SetLabel string         `json:"set,omitempty"`
	BodyPart model.BodyPart `json:"body_part"`
	Level    int            `json:"level"`
	Display  string         `json:"display_level"`
	MaxLevel int            `json:"max_level"`
}

// Purchased reports whether the user owns the piece.
func (p PieceView) Purchased() bool {
	return p.Level > model.NotPurchased
}

// Maxed reports whether the piece is at its maximum level.
func (p PieceView) Maxed() bool {
	return p.Level >= p.MaxLevel
}

// Aggregation is the result of summing a user's outstanding costs.
type Aggregation struct {
	// Remaining holds an entry for every known material, zero included.
	Remaining map[model.Material]int
	// Levels is the current level per armor id, NotPurchased when absent.
	Levels map[int64]int
	// Pieces are in display order.
	Pieces []PieceView
}

// Aggregate sums, per material, every cost row above the user's current
// level for each piece. current maps armor id to level; missing pieces are
// treated as not purchased. Free rows contribute nothing.
func Aggregate(pieces []model.Armor, current map[int64]int) Aggregation {
	agg := Aggregation{
		Remaining: make(map[model.Material]int),
		Levels:    make(map[int64]int, len(pieces)),
		Pieces:    make([]PieceView, 0, len(pieces)),
	}
	for _, m := range model.Materials() {
		agg.Remaining[m] = 0
	}

	ordered := make([]model.Armor, len(pieces))
	copy(ordered, pieces)
	Sort(ordered)

	for _, a := range ordered {
		level, ok := current[a.ID]
		if !ok || level < 0 {
			level = model.NotPurchased
		}
		agg.Levels[a.ID] = level

		for _, c := range a.Costs {
			if c.Level <= level || c.Free() || c.Material == "" {
				continue
			}
			agg.Remaining[c.Material] += c.Quantity
		}

		agg.Pieces = append(agg.Pieces, PieceView{
			ID:       a.ID,
			Name:     a.Name,
			SetCode:  a.SetCode,
			SetLabel: a.SetLabel(),
			BodyPart: a.BodyPart,
			Level:    level,
			MaxLevel: a.MaxLevel,
		})
	}
	return agg
}

// Total is the sum of all remaining quantities.
func (a Aggregation) Total() int {
	total := 0
	for _, q := range a.Remaining {
		total += q
	}
	return total
}

// DisplayLevel renders a level, using label for pieces not yet purchased.
func DisplayLevel(level int, label string) string {
	if level < 0 {
		return label
	}
	return strconv.Itoa(level)
}
