package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/silabala/atelie/internal/catalog"
	"github.com/silabala/atelie/internal/verse"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			photo_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE password_resets (
			token TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL
		);
		CREATE TABLE snapshots (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("failed creating schema: %v", err)
	}

	store, err := catalog.Open(db)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}

	return &server{
		store:  store,
		auth:   newAuthService(db, "test-secret"),
		verses: verse.New(),
		db:     db,
	}
}

// doJSON sends a JSON request through the full router, attaching the
// session cookie when one is given.
func doJSON(t *testing.T, srv *server, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	return rec
}

func loginDev(t *testing.T, srv *server) *http.Cookie {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/login", loginRequest{Email: devEmail, Password: "whatever"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dev login failed with status %d: %s", rec.Code, rec.Body.String())
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatalf("login response did not set session cookie")
	return nil
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestAPIRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/materials", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

func TestLoginDevBypassReturnsFixedProfile(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/login", loginRequest{Email: devEmail, Password: "anything at all"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	u := decodeResponse[user](t, rec)
	if u.ID != "dev-user-01" || u.Email != "dev@silabala.app" {
		t.Fatalf("unexpected dev profile: %+v", u)
	}
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/login", loginRequest{Email: "nobody@example.com", Password: "x"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSignupLoginAndMe(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/signup", signupRequest{
		Name:     "Sila",
		Email:    "sila@example.com",
		Password: "segredo",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed with status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/login", loginRequest{Email: "sila@example.com", Password: "segredo"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", rec.Code, rec.Body.String())
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	if session == nil {
		t.Fatalf("login did not set session cookie")
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/me", nil, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("me failed with status %d", rec.Code)
	}
	u := decodeResponse[user](t, rec)
	if u.Name != "Sila" || u.Email != "sila@example.com" {
		t.Fatalf("unexpected me payload: %+v", u)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	first := doJSON(t, srv, http.MethodPost, "/api/signup", signupRequest{Name: "A", Email: "dup@example.com", Password: "123456"}, nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", first.Code)
	}

	second := doJSON(t, srv, http.MethodPost, "/api/signup", signupRequest{Name: "B", Email: "dup@example.com", Password: "123456"}, nil)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", second.Code)
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/signup", signupRequest{Name: "A", Email: "a@example.com", Password: "123"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", rec.Code)
	}
}

func TestPasswordResetDoesNotRevealAccounts(t *testing.T) {
	srv := newTestServer(t)

	if rec := doJSON(t, srv, http.MethodPost, "/api/signup", signupRequest{Name: "A", Email: "known@example.com", Password: "123456"}, nil); rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", rec.Code)
	}

	known := doJSON(t, srv, http.MethodPost, "/api/password-reset", passwordResetRequest{Email: "known@example.com"}, nil)
	unknown := doJSON(t, srv, http.MethodPost, "/api/password-reset", passwordResetRequest{Email: "ghost@example.com"}, nil)

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Fatalf("reset responses differ: %q vs %q", known.Body.String(), unknown.Body.String())
	}

	var count int
	if err := srv.db.QueryRow(`SELECT COUNT(*) FROM password_resets WHERE email = ?`, "known@example.com").Scan(&count); err != nil {
		t.Fatalf("count resets: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reset token for known email, got %d", count)
	}
}

func TestLogoutClearsSessionCookie(t *testing.T) {
	srv := newTestServer(t)
	session := loginDev(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/logout", nil, session)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge >= 0 {
			t.Fatalf("expected expired session cookie, got MaxAge %d", c.MaxAge)
		}
	}
}
