package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/armory/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateArmor adds an armor piece to the catalog.
func CreateArmor(ctx context.Context, db *sql.DB, a model.Armor) (*model.Armor, error) {
	id, err := insertArmor(ctx, db, a)
	if err != nil {
		return nil, err
	}
	return GetArmor(ctx, db, id)
}

// UpsertArmor inserts a piece unless one with the same name exists, and
// returns the id of the stored piece either way.
func UpsertArmor(ctx context.Context, q querier, a model.Armor) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO armor (name, set_code, body_part, max_level) VALUES (?, ?, ?, ?)
		 ON CONFLICT (name) DO NOTHING`,
		a.Name, nullableSet(a.SetCode), string(a.BodyPart), a.MaxLevel,
	)
	if err != nil {
		return 0, fmt.Errorf("upserting armor %q: %w", a.Name, err)
	}

	var id int64
	err = q.QueryRowContext(ctx, `SELECT id FROM armor WHERE name = ?`, a.Name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("getting armor id for %q: %w", a.Name, err)
	}
	return id, nil
}

func insertArmor(ctx context.Context, q querier, a model.Armor) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO armor (name, set_code, body_part, max_level) VALUES (?, ?, ?, ?)`,
		a.Name, nullableSet(a.SetCode), string(a.BodyPart), a.MaxLevel,
	)
	if err != nil {
		return 0, fmt.Errorf("creating armor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting armor id: %w", err)
	}
	return id, nil
}

// GetArmor returns an armor piece by ID, without its costs.
func GetArmor(ctx context.Context, db *sql.DB, id int64) (*model.Armor, error) {
	a := &model.Armor{}
	var setCode sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, set_code, body_part, max_level FROM armor WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &setCode, &a.BodyPart, &a.MaxLevel)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting armor: %w", err)
	}
	a.SetCode = model.ArmorSet(setCode.String)
	return a, nil
}

// AddUpgradeCost adds a cost row to an armor piece. Rows that give a
// material without a quantity (or the reverse) are rejected before the insert.
func AddUpgradeCost(ctx context.Context, q querier, c model.UpgradeCost) error {
	if err := c.Validate(); err != nil {
		return err
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO armor_upgrade_costs (armor_id, level, material, quantity) VALUES (?, ?, ?, ?)
		 ON CONFLICT (armor_id, level, material) DO NOTHING`,
		c.ArmorID, c.Level, string(c.Material), c.Quantity,
	)
	if err != nil {
		return fmt.Errorf("adding upgrade cost: %w", err)
	}
	return nil
}

// ListArmor returns the whole catalog with each piece's cost rows attached.
// Pieces are ordered by name; callers apply their own display ordering.
func ListArmor(ctx context.Context, db *sql.DB) ([]model.Armor, error) {
	return listArmor(ctx, db, "", "")
}

// SearchArmor returns catalog pieces whose name contains the search string,
// optionally restricted to one set.
func SearchArmor(ctx context.Context, db *sql.DB, search string, set model.ArmorSet) ([]model.Armor, error) {
	return listArmor(ctx, db, search, set)
}

func listArmor(ctx context.Context, db *sql.DB, search string, set model.ArmorSet) ([]model.Armor, error) {
	query := `SELECT id, name, set_code, body_part, max_level FROM armor WHERE 1 = 1`
	var args []any
	if search != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+search+"%")
	}
	if set != "" {
		query += ` AND set_code = ?`
		args = append(args, string(set))
	}
	query += ` ORDER BY name`

	pieces, err := scanArmor(ctx, db, query, args...)
	if err != nil {
		return nil, err
	}

	costs, err := listCosts(ctx, db)
	if err != nil {
		return nil, err
	}

	for i := range pieces {
		pieces[i].Costs = costs[pieces[i].ID]
	}
	return pieces, nil
}

// scanArmor fully drains its rows before returning so the connection is free
// for the next query.
func scanArmor(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Armor, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing armor: %w", err)
	}
	defer rows.Close()

	var pieces []model.Armor
	for rows.Next() {
		var a model.Armor
		var setCode sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &setCode, &a.BodyPart, &a.MaxLevel); err != nil {
			return nil, fmt.Errorf("scanning armor: %w", err)
		}
		a.SetCode = model.ArmorSet(setCode.String)
		pieces = append(pieces, a)
	}
	return pieces, rows.Err()
}

// listCosts returns every cost row keyed by armor id.
func listCosts(ctx context.Context, db *sql.DB) (map[int64][]model.UpgradeCost, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.armor_id, c.level, c.material, c.quantity, a.name
		 FROM armor_upgrade_costs c
		 JOIN armor a ON a.id = c.armor_id
		 ORDER BY c.armor_id, c.level, c.material`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing upgrade costs: %w", err)
	}
	defer rows.Close()

	costs := make(map[int64][]model.UpgradeCost)
	for rows.Next() {
		var c model.UpgradeCost
		if err := rows.Scan(&c.ID, &c.ArmorID, &c.Level, &c.Material, &c.Quantity, &c.ArmorName); err != nil {
			return nil, fmt.Errorf("scanning upgrade cost: %w", err)
		}
		costs[c.ArmorID] = append(costs[c.ArmorID], c)
	}
	return costs, rows.Err()
}

// nullableSet stores an empty set code as NULL so the (set, body part)
// uniqueness only applies to grouped pieces.
func nullableSet(s model.ArmorSet) any {
	if s == "" {
		return nil
	}
	return string(s)
}
