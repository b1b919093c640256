package model

import (
	"errors"
	"fmt"
	"time"
)

// NotPurchased is the level of an armor piece the user has not acquired.
const NotPurchased = -1

// ErrInvalidCost is returned for upgrade cost rows that fail validation.
var ErrInvalidCost = errors.New("invalid upgrade cost")

// Armor is a single equippable piece with its own upgrade track.
type Armor struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	SetCode  ArmorSet `json:"set_code,omitempty"`
	BodyPart BodyPart `json:"body_part"`
	MaxLevel int      `json:"max_level"`

	// Joined fields (not always populated).
	Costs []UpgradeCost `json:"costs,omitempty"`
}

// HasSet reports whether the piece belongs to an armor set.
func (a Armor) HasSet() bool {
	return a.SetCode != ""
}

// SetLabel returns the display name of the piece's set, or "" without one.
func (a Armor) SetLabel() string {
	if !a.HasSet() {
		return ""
	}
	return a.SetCode.Label()
}

// Validate checks the piece before it is written to the catalog.
func (a Armor) Validate() error {
	if a.Name == "" {
		return errors.New("armor name required")
	}
	if !a.BodyPart.Valid() {
		return fmt.Errorf("armor %q: unknown body part %q", a.Name, a.BodyPart)
	}
	if a.HasSet() && !a.SetCode.Valid() {
		return fmt.Errorf("armor %q: unknown set %q", a.Name, a.SetCode)
	}
	if a.MaxLevel < 0 {
		return fmt.Errorf("armor %q: negative max level", a.Name)
	}
	return nil
}

// UpgradeCost is the quantity of one material needed to reach a level.
// Level 0 is the acquisition cost. A row with no material and zero quantity
// marks a free level.
type UpgradeCost struct {
	ID       int64    `json:"id"`
	ArmorID  int64    `json:"armor_id"`
	Level    int      `json:"level"`
	Material Material `json:"material,omitempty"`
	Quantity int      `json:"quantity"`

	// Joined fields (not always populated).
	ArmorName string `json:"armor_name,omitempty"`
}

// Free reports whether the row costs nothing.
func (c UpgradeCost) Free() bool {
	return c.Quantity == 0
}

// Validate enforces that material and quantity are given together.
func (c UpgradeCost) Validate() error {
	if c.Level < 0 {
		return fmt.Errorf("%w: negative level %d", ErrInvalidCost, c.Level)
	}
	if c.Quantity < 0 {
		return fmt.Errorf("%w: negative quantity %d", ErrInvalidCost, c.Quantity)
	}
	if (c.Material != "") != (c.Quantity != 0) {
		return fmt.Errorf("%w: must provide both a material and a quantity if either is provided", ErrInvalidCost)
	}
	if c.Material != "" && !c.Material.Valid() {
		return fmt.Errorf("%w: unknown material %q", ErrInvalidCost, c.Material)
	}
	return nil
}

func (c UpgradeCost) String() string {
	level := "acquisition"
	if c.Level > 0 {
		level = fmt.Sprintf("level %d", c.Level)
	}
	armor := c.ArmorName
	if armor == "" {
		armor = fmt.Sprintf("armor %d", c.ArmorID)
	}
	if c.Free() {
		return fmt.Sprintf("%s %s for free", armor, level)
	}
	return fmt.Sprintf("%d %s for %s %s", c.Quantity, c.Material.Label(), armor, level)
}

// UserArmor is a user's current level for one armor piece. A missing row
// means the piece has not been purchased.
type UserArmor struct {
	UserID    int64     `json:"user_id"`
	ArmorID   int64     `json:"armor_id"`
	Level     int       `json:"level"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChangeOp is a persistence operation on a user's armor progress.
type ChangeOp string

// Change operations.
const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// LevelChange moves one armor piece from one level to another.
type LevelChange struct {
	Op        ChangeOp `json:"op"`
	ArmorID   int64    `json:"armor_id"`
	ArmorName string   `json:"armor"`
	From      int      `json:"from"`
	To        int      `json:"to"`
}
