package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/armory/internal/armor"
	"github.com/erazemk/armory/internal/export"
	"github.com/erazemk/armory/internal/model"
	"github.com/erazemk/armory/internal/store"
)

// ArmorHandler handles armor progress and catalog endpoints.
type ArmorHandler struct {
	DB      *sql.DB
	Tracker *armor.Tracker
}

// levelValue accepts a level as a JSON string, number or null.
type levelValue string

func (v *levelValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = levelValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = levelValue(n.String())
	return nil
}

type updateArmorRequest struct {
	Levels map[string]levelValue `json:"levels"`
}

type updateArmorResponse struct {
	Changes []model.LevelChange `json:"changes"`
	View    *armor.View         `json:"view"`
}

type materialResponse struct {
	Material model.Material `json:"material"`
	Label    string         `json:"label"`
}

// userID returns the authenticated user's id, or 0 without claims.
func userID(r *http.Request) int64 {
	if claims := GetClaims(r.Context()); claims != nil {
		return claims.UserID
	}
	return 0
}

// armorError maps tracker errors to HTTP responses.
func armorError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, armor.ErrUnauthenticated):
		jsonError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, armor.ErrMalformedLevel), errors.Is(err, armor.ErrLevelOutOfRange):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(msg, "error", err)
		jsonError(w, http.StatusInternalServerError, msg)
	}
}

// View handles GET /api/armor.
func (h *ArmorHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.Tracker.ComputeView(r.Context(), userID(r))
	if err != nil {
		armorError(w, err, "failed to compute armor view")
		return
	}
	jsonResponse(w, http.StatusOK, view)
}

// Update handles POST /api/armor. Pieces missing from the request are reset
// to not purchased.
func (h *ArmorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateArmorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	desired := make(map[string]string, len(req.Levels))
	for name, v := range req.Levels {
		desired[name] = string(v)
	}

	id := userID(r)
	changes, err := h.Tracker.ApplyUpdates(r.Context(), id, desired)
	if err != nil {
		armorError(w, err, "failed to update armor")
		return
	}

	view, err := h.Tracker.ComputeView(r.Context(), id)
	if err != nil {
		armorError(w, err, "failed to compute armor view")
		return
	}

	if changes == nil {
		changes = []model.LevelChange{}
	}
	slog.Info("armor levels updated", "user", GetClaims(r.Context()).Username, "changes", len(changes))
	jsonResponse(w, http.StatusOK, updateArmorResponse{Changes: changes, View: view})
}

// Export handles GET /api/armor/export.xlsx.
func (h *ArmorHandler) Export(w http.ResponseWriter, r *http.Request) {
	view, err := h.Tracker.ComputeView(r.Context(), userID(r))
	if err != nil {
		armorError(w, err, "failed to compute armor view")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view); err != nil {
		slog.Error("failed to export armor", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export armor")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="armor.xlsx"`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Catalog handles GET /api/catalog. It accepts optional search and set
// query parameters.
func (h *ArmorHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	set := model.ArmorSet(r.URL.Query().Get("set"))
	if set != "" && !set.Valid() {
		jsonError(w, http.StatusBadRequest, "unknown armor set")
		return
	}

	pieces, err := store.SearchArmor(r.Context(), h.DB, search, set)
	if err != nil {
		slog.Error("failed to list catalog", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list catalog")
		return
	}
	armor.Sort(pieces)
	if pieces == nil {
		pieces = []model.Armor{}
	}
	jsonResponse(w, http.StatusOK, pieces)
}

// Materials handles GET /api/materials.
func (h *ArmorHandler) Materials(w http.ResponseWriter, r *http.Request) {
	var out []materialResponse
	for _, m := range model.Materials() {
		out = append(out, materialResponse{Material: m, Label: m.Label()})
	}
	jsonResponse(w, http.StatusOK, out)
}
