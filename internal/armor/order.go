package armor

import (
	"cmp"
	"slices"

	"github.com/erazemk/armory/internal/model"
)

// SortKey orders armor pieces for display: pieces in a set come first,
// grouped by set and worn head to foot; set-less pieces follow by name.
// Name and ID break the remaining ties so distinct pieces never compare equal.
type SortKey struct {
	NoSet   bool
	SetCode model.ArmorSet
	Rank    int
	Name    string
	ID      int64
}

// bodyRank places HEAD before LEGS within a set. BODY sits between them.
func bodyRank(p model.BodyPart) int {
	switch p {
	case model.BodyPartHead:
		return 0
	case model.BodyPartBody:
		return 1
	case model.BodyPartLegs:
		return 2
	default:
		return 3
	}
}

// KeyOf returns the sort key of a piece.
func KeyOf(a model.Armor) SortKey {
	if !a.HasSet() {
		return SortKey{NoSet: true, Name: a.Name, ID: a.ID}
	}
	return SortKey{SetCode: a.SetCode, Rank: bodyRank(a.BodyPart), Name: a.Name, ID: a.ID}
}

// Compare returns -1, 0 or +1. It is 0 only for identical keys.
func (k SortKey) Compare(o SortKey) int {
	return cmp.Or(
		compareBool(k.NoSet, o.NoSet),
		cmp.Compare(k.SetCode, o.SetCode),
		cmp.Compare(k.Rank, o.Rank),
		cmp.Compare(k.Name, o.Name),
		cmp.Compare(k.ID, o.ID),
	)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Compare orders two pieces for display, for use with slices.SortFunc.
func Compare(a, b model.Armor) int {
	return KeyOf(a).Compare(KeyOf(b))
}

// Less reports whether a is displayed before b.
func Less(a, b model.Armor) bool {
	return Compare(a, b) < 0
}

// Sort orders pieces in place for display.
func Sort(pieces []model.Armor) {
	slices.SortFunc(pieces, Compare)
}
