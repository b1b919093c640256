package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/armory/internal/armor"
	"github.com/erazemk/armory/internal/auth"
	"github.com/erazemk/armory/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, lifetimes auth.Lifetimes, tracker *armor.Tracker) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Lifetimes: lifetimes}
	usersHandler := &UsersHandler{DB: db}
	armorHandler := &ArmorHandler{DB: db, Tracker: tracker}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login and token refresh.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Armor progress (own user).
	mux.Handle("GET /api/armor", authMW(http.HandlerFunc(armorHandler.View)))
	mux.Handle("POST /api/armor", authMW(http.HandlerFunc(armorHandler.Update)))
	mux.Handle("GET /api/armor/export.xlsx", authMW(http.HandlerFunc(armorHandler.Export)))

	// Catalog (all roles).
	mux.Handle("GET /api/catalog", authMW(http.HandlerFunc(armorHandler.Catalog)))
	mux.Handle("GET /api/materials", authMW(http.HandlerFunc(armorHandler.Materials)))

	return mux
}
