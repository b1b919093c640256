package armor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/armory/internal/metrics"
	"github.com/erazemk/armory/internal/model"
	"github.com/erazemk/armory/internal/store"
)

// ErrUnauthenticated is returned when an operation has no user identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// Config controls presentation and validation of armor progress.
type Config struct {
	// NotPurchasedLabel is shown instead of a level for pieces not owned.
	NotPurchasedLabel string
	// EnforceMaxLevel rejects requested levels above a piece's max level.
	// Off by default: updates are stored as submitted.
	EnforceMaxLevel bool
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{NotPurchasedLabel: "Not purchased"}
}

// MaterialCost is the outstanding quantity of one material.
type MaterialCost struct {
	Material model.Material `json:"material"`
	Label    string         `json:"label"`
	Quantity int            `json:"quantity"`
}

// View is everything the armor page shows for one user.
type View struct {
	Pieces    []PieceView            `json:"armor"`
	Remaining map[model.Material]int `json:"remaining_cost"`
	Materials []MaterialCost         `json:"-"`
	Total     int                    `json:"total"`
}

// Tracker computes and updates a user's armor progress.
type Tracker struct {
	DB     *sql.DB
	Config Config
}

// NewTracker returns a tracker backed by db.
func NewTracker(db *sql.DB, cfg Config) *Tracker {
	if cfg.NotPurchasedLabel == "" {
		cfg.NotPurchasedLabel = DefaultConfig().NotPurchasedLabel
	}
	return &Tracker{DB: db, Config: cfg}
}

// ComputeView returns the user's ordered armor levels and the materials
// still needed to max out every piece.
func (t *Tracker) ComputeView(ctx context.Context, userID int64) (*View, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	pieces, err := store.ListArmor(ctx, t.DB)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	levels, err := store.GetUserLevels(ctx, t.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}

	agg := Aggregate(pieces, levels)
	for i := range agg.Pieces {
		agg.Pieces[i].Display = DisplayLevel(agg.Pieces[i].Level, t.Config.NotPurchasedLabel)
	}

	view := &View{
		Pieces:    agg.Pieces,
		Remaining: agg.Remaining,
		Total:     agg.Total(),
	}
	for _, m := range model.Materials() {
		view.Materials = append(view.Materials, MaterialCost{
			Material: m,
			Label:    m.Label(),
			Quantity: agg.Remaining[m],
		})
	}

	metrics.ViewsComputed.Inc()
	return view, nil
}

// ApplyUpdates sets the user's levels to those in desired, keyed by armor
// name. Blank or missing entries clear the piece's progress. The changes are
// computed against the stored levels and applied in one transaction; the
// applied changes are returned.
func (t *Tracker) ApplyUpdates(ctx context.Context, userID int64, desired map[string]string) ([]model.LevelChange, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	pieces, err := store.ListArmor(ctx, t.DB)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	requested, err := ParseLevels(desired, pieces)
	if err != nil {
		metrics.UpdateBatches.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if t.Config.EnforceMaxLevel {
		if err := CheckBounds(pieces, requested); err != nil {
			metrics.UpdateBatches.WithLabelValues("rejected").Inc()
			return nil, err
		}
	}

	changes, err := store.UpdateLevels(ctx, t.DB, userID, func(current map[int64]int) ([]model.LevelChange, error) {
		return Diff(pieces, current, requested), nil
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		metrics.UpdateBatches.WithLabelValues("failed").Inc()
		return nil, err
	}

	for _, c := range changes {
		metrics.LevelChanges.WithLabelValues(string(c.Op)).Inc()
	}
	metrics.UpdateBatches.WithLabelValues("applied").Inc()
	return changes, nil
}
