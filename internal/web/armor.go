package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/armory/internal/armor"
	"github.com/erazemk/armory/internal/export"
)

type armorPage struct {
	PageData
	View         *armor.View
	NotPurchased string

	// Submitted holds the raw form values after a rejected update so the
	// form shows what the user entered.
	Submitted map[string]string
}

// ArmorPage handles GET /.
func (s *Server) ArmorPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	view, err := s.Tracker.ComputeView(r.Context(), claims.UserID)
	if errors.Is(err, armor.ErrUnauthenticated) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("failed to compute armor view", "user", claims.Username, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := &armorPage{
		PageData:     PageData{Title: "Armor", User: claims},
		View:         view,
		NotPurchased: s.Tracker.Config.NotPurchasedLabel,
	}
	if r.URL.Query().Get("saved") != "" {
		page.Success = "Armor levels saved."
	}
	s.Templates.Render(w, "armor.html", page)
}

// UpdateArmorSubmit handles POST /update-armor. Each form field is named
// after an armor piece; a blank value means not purchased.
func (s *Server) UpdateArmorSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	desired := make(map[string]string, len(r.PostForm))
	for name := range r.PostForm {
		desired[name] = r.PostForm.Get(name)
	}

	changes, err := s.Tracker.ApplyUpdates(r.Context(), claims.UserID, desired)
	switch {
	case errors.Is(err, armor.ErrUnauthenticated):
		clearAuthCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, armor.ErrMalformedLevel), errors.Is(err, armor.ErrLevelOutOfRange):
		s.renderRejected(w, r, desired, err)
		return
	case err != nil:
		slog.Error("failed to update armor", "user", claims.Username, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("armor levels updated", "user", claims.Username, "changes", len(changes))
	http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
}

func (s *Server) renderRejected(w http.ResponseWriter, r *http.Request, desired map[string]string, cause error) {
	claims := GetWebClaims(r.Context())

	view, err := s.Tracker.ComputeView(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to compute armor view", "user", claims.Username, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.RenderStatus(w, http.StatusBadRequest, "armor.html", &armorPage{
		PageData:     PageData{Title: "Armor", User: claims, Error: cause.Error()},
		View:         view,
		NotPurchased: s.Tracker.Config.NotPurchasedLabel,
		Submitted:    desired,
	})
}

// ArmorExport handles GET /armor/export.xlsx.
func (s *Server) ArmorExport(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	view, err := s.Tracker.ComputeView(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to compute armor view", "user", claims.Username, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view); err != nil {
		slog.Error("failed to export armor", "user", claims.Username, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="armor.xlsx"`)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
