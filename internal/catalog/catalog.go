// Package catalog loads the armor catalog seed and writes it to the database.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/armory/internal/model"
	"github.com/erazemk/armory/internal/store"
)

//go:embed armor.yaml
var defaultCatalog []byte

// Entry is one armor piece as written in the seed file. Upgrades holds one
// material map per level, starting with the acquisition cost at level 0.
type Entry struct {
	Set      string           `yaml:"set" validate:"omitempty,armorset"`
	BodyPart string           `yaml:"body_part" validate:"required,bodypart"`
	Upgrades []map[string]int `yaml:"upgrades" validate:"required,min=1,dive,dive,keys,material,endkeys,gt=0"`
}

// Catalog is a decoded seed file.
type Catalog struct {
	FairyTax map[int]int      `yaml:"fairy_tax" validate:"dive,keys,gt=0,endkeys,gte=0"`
	Armor    map[string]Entry `yaml:"armor" validate:"required,min=1,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("armorset", func(fl validator.FieldLevel) bool {
		return model.ArmorSet(fl.Field().String()).Valid()
	})
	v.RegisterValidation("bodypart", func(fl validator.FieldLevel) bool {
		return model.BodyPart(fl.Field().String()).Valid()
	})
	v.RegisterValidation("material", func(fl validator.FieldLevel) bool {
		return model.Material(fl.Field().String()).Valid()
	})
	return v
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(strings.NewReader(string(defaultCatalog)))
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a catalog document. An unknown set, body part
// or material anywhere in the document fails the whole load.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	for name := range c.Armor {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("validating catalog: armor with empty name")
		}
	}
	return &c, nil
}

// Names returns the armor names in the catalog, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Armor))
	for name := range c.Armor {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Pieces expands the catalog into armor pieces with their cost rows. The
// fairy tax is added to the rupee cost of each upgrade level, and a level
// without materials gets a single free row.
func (c *Catalog) Pieces() []model.Armor {
	var pieces []model.Armor
	for _, name := range c.Names() {
		e := c.Armor[name]
		a := model.Armor{
			Name:     name,
			SetCode:  model.ArmorSet(strings.TrimSpace(e.Set)),
			BodyPart: model.BodyPart(e.BodyPart),
			MaxLevel: len(e.Upgrades) - 1,
		}

		for level, materials := range e.Upgrades {
			qty := make(map[string]int, len(materials)+1)
			for m, n := range materials {
				qty[m] = n
			}
			if tax := c.FairyTax[level]; level > 0 && tax > 0 {
				qty[string(model.MaterialRupee)] += tax
			}

			if len(qty) == 0 {
				a.Costs = append(a.Costs, model.UpgradeCost{Level: level, ArmorName: name})
				continue
			}
			keys := make([]string, 0, len(qty))
			for m := range qty {
				keys = append(keys, m)
			}
			slices.Sort(keys)
			for _, m := range keys {
				a.Costs = append(a.Costs, model.UpgradeCost{
					Level:     level,
					Material:  model.Material(m),
					Quantity:  qty[m],
					ArmorName: name,
				})
			}
		}
		pieces = append(pieces, a)
	}
	return pieces
}

// Seed writes the catalog to the database in a single transaction. Pieces
// and cost rows that already exist are left as they are, so seeding is safe
// to repeat on every start.
func Seed(ctx context.Context, db *sql.DB, c *Catalog) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	pieces := c.Pieces()
	for _, a := range pieces {
		id, err := store.UpsertArmor(ctx, tx, a)
		if err != nil {
			return 0, err
		}
		for _, cost := range a.Costs {
			cost.ArmorID = id
			if err := store.AddUpgradeCost(ctx, tx, cost); err != nil {
				return 0, fmt.Errorf("seeding %s: %w", cost, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing catalog: %w", err)
	}
	return len(pieces), nil
}
