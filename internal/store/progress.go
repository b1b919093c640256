package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/armory/internal/model"
)

// ErrUserNotFound is returned when progress is written for a missing user.
var ErrUserNotFound = errors.New("user not found")

// GetUserLevels returns the user's current level per armor id in one query.
// Pieces without a row are absent from the map.
func GetUserLevels(ctx context.Context, db *sql.DB, userID int64) (map[int64]int, error) {
	return userLevels(ctx, db, userID)
}

func userLevels(ctx context.Context, q querier, userID int64) (map[int64]int, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT armor_id, level FROM user_armor WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user armor levels: %w", err)
	}
	defer rows.Close()

	levels := make(map[int64]int)
	for rows.Next() {
		var armorID int64
		var level int
		if err := rows.Scan(&armorID, &level); err != nil {
			return nil, fmt.Errorf("scanning user armor level: %w", err)
		}
		levels[armorID] = level
	}
	return levels, rows.Err()
}

// ListUserArmor returns the user's progress rows ordered by armor id.
func ListUserArmor(ctx context.Context, db *sql.DB, userID int64) ([]model.UserArmor, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT user_id, armor_id, level, updated_at FROM user_armor
		 WHERE user_id = ? ORDER BY armor_id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user armor: %w", err)
	}
	defer rows.Close()

	var out []model.UserArmor
	for rows.Next() {
		var ua model.UserArmor
		if err := rows.Scan(&ua.UserID, &ua.ArmorID, &ua.Level, &ua.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user armor: %w", err)
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// PlanFunc computes the changes to apply given the user's current levels.
type PlanFunc func(current map[int64]int) ([]model.LevelChange, error)

// UpdateLevels reads the user's levels, asks plan for the changes and applies
// them, all in a single transaction. The user's row is written first so that
// concurrent updates for the same user are serialized on SQLite's write lock
// before anything is read. Either every change is applied or none is.
func UpdateLevels(ctx context.Context, db *sql.DB, userID int64, plan PlanFunc) ([]model.LevelChange, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET id = id WHERE id = ? AND deleted_at IS NULL`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrUserNotFound
	}

	current, err := userLevels(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	changes, err := plan(current)
	if err != nil {
		return nil, err
	}

	if err := applyChanges(ctx, tx, userID, changes); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing level changes: %w", err)
	}
	return changes, nil
}

// ApplyLevelChanges applies precomputed changes atomically.
func ApplyLevelChanges(ctx context.Context, db *sql.DB, userID int64, changes []model.LevelChange) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := applyChanges(ctx, tx, userID, changes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing level changes: %w", err)
	}
	return nil
}

func applyChanges(ctx context.Context, tx *sql.Tx, userID int64, changes []model.LevelChange) error {
	for _, c := range changes {
		var err error
		switch c.Op {
		case model.OpCreate:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO user_armor (user_id, armor_id, level) VALUES (?, ?, ?)`,
				userID, c.ArmorID, c.To,
			)
		case model.OpUpdate:
			_, err = tx.ExecContext(ctx,
				`UPDATE user_armor SET level = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE user_id = ? AND armor_id = ?`,
				c.To, userID, c.ArmorID,
			)
		case model.OpDelete:
			_, err = tx.ExecContext(ctx,
				`DELETE FROM user_armor WHERE user_id = ? AND armor_id = ?`,
				userID, c.ArmorID,
			)
		default:
			err = fmt.Errorf("unknown operation %q", c.Op)
		}
		if err != nil {
			return fmt.Errorf("applying %s for armor %d: %w", c.Op, c.ArmorID, err)
		}
	}
	return nil
}
