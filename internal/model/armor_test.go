package model

import (
	"errors"
	"testing"
)

func TestUpgradeCostValidate(t *testing.T) {
	tests := []struct {
		name    string
		cost    UpgradeCost
		wantErr bool
	}{
		{"material and quantity", UpgradeCost{Level: 1, Material: "RUPEE", Quantity: 10}, false},
		{"free", UpgradeCost{Level: 0}, false},
		{"material without quantity", UpgradeCost{Level: 1, Material: "RUPEE"}, true},
		{"quantity without material", UpgradeCost{Level: 1, Quantity: 3}, true},
		{"unknown material", UpgradeCost{Level: 1, Material: "TRIFORCE", Quantity: 1}, true},
		{"negative level", UpgradeCost{Level: -1}, true},
		{"negative quantity", UpgradeCost{Level: 1, Material: "RUPEE", Quantity: -5}, true},
	}

	for _, tt := range tests {
		err := tt.cost.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidCost) {
			t.Errorf("%s: expected ErrInvalidCost, got %v", tt.name, err)
		}
	}
}

func TestUpgradeCostString(t *testing.T) {
	tests := []struct {
		cost UpgradeCost
		want string
	}{
		{UpgradeCost{ArmorName: "Hylian Hood", Level: 0, Material: "RUPEE", Quantity: 35}, "35 Rupee for Hylian Hood acquisition"},
		{UpgradeCost{ArmorName: "Hylian Hood", Level: 2, Material: "DIAMOND", Quantity: 1}, "1 Diamond for Hylian Hood level 2"},
		{UpgradeCost{ArmorName: "Champion's Tunic", Level: 0}, "Champion's Tunic acquisition for free"},
	}

	for _, tt := range tests {
		if got := tt.cost.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestArmorValidate(t *testing.T) {
	valid := Armor{Name: "Hylian Hood", SetCode: "HYLIAN_SET", BodyPart: BodyPartHead, MaxLevel: 4}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid armor, got %v", err)
	}

	ungrouped := Armor{Name: "Sand Boots", BodyPart: BodyPartLegs, MaxLevel: 4}
	if err := ungrouped.Validate(); err != nil {
		t.Errorf("expected ungrouped armor to be valid, got %v", err)
	}

	bad := []Armor{
		{BodyPart: BodyPartHead},
		{Name: "X", BodyPart: "FEET"},
		{Name: "X", BodyPart: BodyPartHead, SetCode: "NOPE_SET"},
		{Name: "X", BodyPart: BodyPartHead, MaxLevel: -1},
	}
	for _, a := range bad {
		if err := a.Validate(); err == nil {
			t.Errorf("expected error for %+v", a)
		}
	}
}

func TestChoiceLabels(t *testing.T) {
	if got := Material("HOT_FOOTED_FROG").Label(); got != "Hot-Footed Frog" {
		t.Errorf("override label = %q", got)
	}
	if got := Material("LUMINOUS_STONE").Label(); got != "Luminous Stone" {
		t.Errorf("derived label = %q", got)
	}
	if got := ArmorSet("HYLIAN_SET").Label(); got != "Hylian Set" {
		t.Errorf("set label = %q", got)
	}
	if got := BodyPartHead.Label(); got != "Head" {
		t.Errorf("body part label = %q", got)
	}
	if got := Material("UNKNOWN").Label(); got != "UNKNOWN" {
		t.Errorf("unknown label should echo key, got %q", got)
	}
	if Materials()[0] != "RUPEE" {
		t.Errorf("expected rupees first, got %q", Materials()[0])
	}
	if len(BodyParts()) != 3 {
		t.Errorf("expected 3 body parts, got %d", len(BodyParts()))
	}
}
