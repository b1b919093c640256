package armor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/armory/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", model.NotPurchased, false},
		{"   ", model.NotPurchased, false},
		{"-1", model.NotPurchased, false},
		{"0", 0, false},
		{" 3 ", 3, false},
		{"two", 0, true},
		{"1.5", 0, true},
		{"-2", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.value)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMalformedLevel, "value %q", tt.value)
			continue
		}
		require.NoError(t, err, "value %q", tt.value)
		assert.Equal(t, tt.want, got, "value %q", tt.value)
	}
}

func TestParseLevelsDefaultsAndUnknownNames(t *testing.T) {
	requested, err := ParseLevels(map[string]string{
		"Hylian Hood":  "2",
		"Sand Boots":   "",
		"Master Sword": "9",
	}, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, 2, requested[1])
	assert.Equal(t, model.NotPurchased, requested[2], "unmentioned piece")
	assert.Equal(t, model.NotPurchased, requested[3], "blank value")
	assert.Len(t, requested, 4)
}

func TestParseLevelsMalformedFailsBatch(t *testing.T) {
	_, err := ParseLevels(map[string]string{
		"Hylian Hood": "2",
		"Sand Boots":  "lots",
	}, testCatalog())

	var levelErr *LevelError
	require.True(t, errors.As(err, &levelErr))
	assert.Equal(t, "Sand Boots", levelErr.Armor)
	assert.ErrorIs(t, err, ErrMalformedLevel)
}

func TestCheckBounds(t *testing.T) {
	pieces := testCatalog()

	assert.NoError(t, CheckBounds(pieces, map[int64]int{1: 2, 2: 0}))
	assert.ErrorIs(t, CheckBounds(pieces, map[int64]int{1: 3}), ErrLevelOutOfRange)
}

func TestDiff(t *testing.T) {
	pieces := testCatalog()
	current := map[int64]int{1: 1, 2: 0, 3: 0}
	requested := map[int64]int{1: 2, 2: model.NotPurchased, 3: 0, 4: 0}

	changes := Diff(pieces, current, requested)

	require.Len(t, changes, 3)
	byArmor := map[int64]model.LevelChange{}
	for _, c := range changes {
		byArmor[c.ArmorID] = c
	}
	assert.Equal(t, model.OpUpdate, byArmor[1].Op)
	assert.Equal(t, 2, byArmor[1].To)
	assert.Equal(t, model.OpDelete, byArmor[2].Op)
	assert.Equal(t, model.OpCreate, byArmor[4].Op)
	assert.Equal(t, "Bokoblin Mask", byArmor[4].ArmorName)
	_, touched := byArmor[3]
	assert.False(t, touched, "unchanged piece produces no operation")
}

func TestDiffNoChanges(t *testing.T) {
	pieces := testCatalog()
	current := map[int64]int{1: 1}

	assert.Empty(t, Diff(pieces, current, map[int64]int{1: 1}))
	assert.Empty(t, Diff(pieces, nil, nil), "absent on both sides")
}

func TestDiffOutOfRangeAccepted(t *testing.T) {
	changes := Diff(testCatalog(), nil, map[int64]int{1: 9})

	require.Len(t, changes, 1)
	assert.Equal(t, 9, changes[0].To)
}
