package armor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/erazemk/armory/internal/model"
)

var (
	// ErrMalformedLevel is returned when a requested level is not an integer.
	ErrMalformedLevel = errors.New("malformed level")
	// ErrLevelOutOfRange is returned in strict mode for levels above max.
	ErrLevelOutOfRange = errors.New("level out of range")
)

// LevelError reports the armor piece whose requested level was rejected.
type LevelError struct {
	Armor string
	Value string
	Err   error
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Armor, e.Value, e.Err)
}

func (e *LevelError) Unwrap() error { return e.Err }

// ParseLevel converts a submitted value to a level. Blank means not
// purchased, as does -1.
func ParseLevel(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.NotPurchased, nil
	}
	level, err := strconv.Atoi(value)
	if err != nil || level < model.NotPurchased {
		return 0, ErrMalformedLevel
	}
	return level, nil
}

// ParseLevels maps every catalog piece to its requested level. Pieces the
// form does not mention are requested as not purchased; names that are not
// in the catalog are ignored. One bad value fails the whole batch.
func ParseLevels(form map[string]string, pieces []model.Armor) (map[int64]int, error) {
	requested := make(map[int64]int, len(pieces))
	for _, a := range pieces {
		value, ok := form[a.Name]
		if !ok {
			requested[a.ID] = model.NotPurchased
			continue
		}
		level, err := ParseLevel(value)
		if err != nil {
			return nil, &LevelError{Armor: a.Name, Value: value, Err: err}
		}
		requested[a.ID] = level
	}
	return requested, nil
}

// CheckBounds rejects requested levels above a piece's max level.
func CheckBounds(pieces []model.Armor, requested map[int64]int) error {
	for _, a := range pieces {
		if level, ok := requested[a.ID]; ok && level > a.MaxLevel {
			return &LevelError{Armor: a.Name, Value: strconv.Itoa(level), Err: ErrLevelOutOfRange}
		}
	}
	return nil
}

// Diff returns the minimal changes that move current to requested, in
// display order. Both maps are keyed by armor id; a missing entry in
// either means not purchased.
func Diff(pieces []model.Armor, current, requested map[int64]int) []model.LevelChange {
	ordered := make([]model.Armor, len(pieces))
	copy(ordered, pieces)
	Sort(ordered)

	var changes []model.LevelChange
	for _, a := range ordered {
		from, exists := current[a.ID]
		if !exists {
			from = model.NotPurchased
		}
		to, ok := requested[a.ID]
		if !ok {
			to = model.NotPurchased
		}
		if to == from {
			continue
		}

		change := model.LevelChange{ArmorID: a.ID, ArmorName: a.Name, From: from, To: to}
		switch {
		case to == model.NotPurchased:
			change.Op = model.OpDelete
		case !exists:
			change.Op = model.OpCreate
		default:
			change.Op = model.OpUpdate
		}
		changes = append(changes, change)
	}
	return changes
}
