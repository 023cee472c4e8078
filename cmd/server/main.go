package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/silabala/atelie/internal/catalog"
	"github.com/silabala/atelie/internal/config"
	"github.com/silabala/atelie/internal/db"
	"github.com/silabala/atelie/internal/migrations"
	"github.com/silabala/atelie/internal/seed"
	"github.com/silabala/atelie/internal/verse"
)

type server struct {
	store  *catalog.Store
	auth   *authService
	verses *verse.Service
	db     *sql.DB
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "migrations"); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}
	if version, err := migrations.Version(database); err == nil {
		log.Printf("database schema at version %d", version)
	}

	store, err := catalog.Open(database)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}

	auth := newAuthService(database, cfg.SessionSecret)
	if err := auth.ensureAdminUser(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	if cfg.IsDev() {
		stats, err := seed.Run(store, time.Now())
		if err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		if stats.Inserts > 0 {
			log.Printf("seeded %d demo records", stats.Inserts)
		}
	}

	srv := &server{store: store, auth: auth, verses: verse.New(), db: database}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.authMiddleware)

	r.Post("/api/login", s.handleLogin)
	r.Post("/api/signup", s.handleSignup)
	r.Post("/api/logout", s.handleLogout)
	r.Post("/api/password-reset", s.handlePasswordReset)
	r.Get("/api/me", s.handleMe)

	r.Get("/api/materials", s.handleMaterialsList)
	r.Post("/api/materials", s.handleMaterialsCreate)
	r.Put("/api/materials/{id}", s.handleMaterialsUpdate)
	r.Delete("/api/materials/{id}", s.handleMaterialsDelete)
	r.Post("/api/materials/undo", s.handleMaterialsUndo)
	r.Post("/api/materials/import", s.handleMaterialsImport)

	r.Get("/api/costs", s.handleCostsList)
	r.Post("/api/costs", s.handleCostsCreate)
	r.Put("/api/costs/{id}", s.handleCostsUpdate)
	r.Delete("/api/costs/{id}", s.handleCostsDelete)
	r.Post("/api/costs/undo", s.handleCostsUndo)

	r.Get("/api/rates", s.handleRates)
	r.Put("/api/settings", s.handleSettingsUpdate)
	r.Post("/api/pricing/preview", s.handlePricingPreview)
	r.Post("/api/pricing/products", s.handlePricingSave)

	r.Get("/api/products", s.handleProductsList)
	r.Post("/api/products", s.handleProductsCreate)
	r.Put("/api/products/{id}", s.handleProductsUpdate)
	r.Delete("/api/products/{id}", s.handleProductsDelete)

	r.Get("/api/customers", s.handleCustomersList)
	r.Post("/api/customers", s.handleCustomersCreate)

	r.Get("/api/orders", s.handleOrdersList)
	r.Post("/api/orders", s.handleOrdersCreate)
	r.Put("/api/orders/{id}/status", s.handleOrderStatus)
	r.Put("/api/orders/{id}/payment", s.handleOrderPayment)

	r.Get("/api/dashboard", s.handleDashboard)
	r.Get("/api/verse", s.handleVerse)

	return r
}

// publicPaths are reachable without a session.
var publicPaths = map[string]bool{
	"/api/login":          true,
	"/api/signup":         true,
	"/api/password-reset": true,
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] || !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := s.sessionUser(r); !ok {
			writeError(w, http.StatusUnauthorized, "Sessão inválida. Faça login novamente.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) sessionUser(r *http.Request) (*sessionClaims, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}

	claims, err := s.auth.verifySession(cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody reads a JSON request body into dst. A false return means the
// 400 response was already written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return false
	}
	return true
}
