package armor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/armory/internal/model"
)

func testCatalog() []model.Armor {
	return []model.Armor{
		{
			ID: 1, Name: "Hylian Hood", SetCode: "HYLIAN_SET", BodyPart: model.BodyPartHead, MaxLevel: 2,
			Costs: []model.UpgradeCost{
				{ArmorID: 1, Level: 0, Material: "RUPEE", Quantity: 35},
				{ArmorID: 1, Level: 1, Material: "RUPEE", Quantity: 10},
				{ArmorID: 1, Level: 2, Material: "RUPEE", Quantity: 20},
				{ArmorID: 1, Level: 2, Material: "DIAMOND", Quantity: 1},
			},
		},
		{
			ID: 2, Name: "Champion's Tunic", BodyPart: model.BodyPartBody, MaxLevel: 0,
			Costs: []model.UpgradeCost{{ArmorID: 2, Level: 0}},
		},
		{
			ID: 3, Name: "Sand Boots", BodyPart: model.BodyPartLegs, MaxLevel: 0,
			Costs: []model.UpgradeCost{{ArmorID: 3, Level: 0, Material: "RUPEE", Quantity: 700}},
		},
		{ID: 4, Name: "Bokoblin Mask", BodyPart: model.BodyPartHead, MaxLevel: 0},
	}
}

func TestAggregateNoProgress(t *testing.T) {
	agg := Aggregate(testCatalog(), nil)

	assert.Equal(t, 35+10+20+700, agg.Remaining["RUPEE"])
	assert.Equal(t, 1, agg.Remaining["DIAMOND"])
	for id, level := range agg.Levels {
		assert.Equal(t, model.NotPurchased, level, "armor %d", id)
	}
}

func TestAggregateIncludesEveryMaterial(t *testing.T) {
	agg := Aggregate(testCatalog(), nil)

	for _, m := range model.Materials() {
		_, ok := agg.Remaining[m]
		assert.True(t, ok, "missing material %s", m)
	}
	assert.Equal(t, 0, agg.Remaining["LYNEL_HORN"])
}

func TestAggregateSkipsReachedLevels(t *testing.T) {
	agg := Aggregate(testCatalog(), map[int64]int{1: 1, 3: 0})

	assert.Equal(t, 20, agg.Remaining["RUPEE"])
	assert.Equal(t, 1, agg.Remaining["DIAMOND"])
	assert.Equal(t, 1, agg.Levels[1])
	assert.Equal(t, 0, agg.Levels[3])
	assert.Equal(t, model.NotPurchased, agg.Levels[2])
}

func TestAggregateMaxedPieceContributesNothing(t *testing.T) {
	agg := Aggregate(testCatalog(), map[int64]int{1: 2, 3: 0})

	assert.Equal(t, 0, agg.Total())
	for _, p := range agg.Pieces {
		if p.ID == 1 || p.ID == 3 {
			assert.True(t, p.Maxed(), p.Name)
		}
	}
}

func TestAggregatePiecesInDisplayOrder(t *testing.T) {
	agg := Aggregate(testCatalog(), nil)

	require.Len(t, agg.Pieces, 4)
	assert.Equal(t, "Hylian Hood", agg.Pieces[0].Name)
	assert.Equal(t, "Bokoblin Mask", agg.Pieces[1].Name)
	assert.Equal(t, "Champion's Tunic", agg.Pieces[2].Name)
	assert.Equal(t, "Sand Boots", agg.Pieces[3].Name)
	assert.Equal(t, "Hylian Set", agg.Pieces[0].SetLabel)
}

func TestAggregateDoesNotReorderInput(t *testing.T) {
	pieces := testCatalog()
	Aggregate(pieces, nil)

	assert.Equal(t, "Hylian Hood", pieces[0].Name)
	assert.Equal(t, "Champion's Tunic", pieces[1].Name)
}

func TestDisplayLevel(t *testing.T) {
	assert.Equal(t, "Not purchased", DisplayLevel(model.NotPurchased, "Not purchased"))
	assert.Equal(t, "0", DisplayLevel(0, "Not purchased"))
	assert.Equal(t, "3", DisplayLevel(3, "Not purchased"))
}
