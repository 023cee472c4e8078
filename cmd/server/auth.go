package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookieName = "atelie_session"
	sessionDuration   = 7 * 24 * time.Hour
	sessionIssuer     = "atelie"
	bcryptCost        = 12
)

// devEmail bypasses credential checks entirely so the app can be explored
// without creating an account first.
const devEmail = "dev@dev.com"

var errInvalidSession = errors.New("invalid session")

type authService struct {
	db            *sql.DB
	sessionSecret []byte
	now           func() time.Time
}

func newAuthService(db *sql.DB, sessionSecret string) *authService {
	return &authService{db: db, sessionSecret: []byte(sessionSecret), now: time.Now}
}

type user struct {
	ID       string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

func devUser() user {
	return user{
		ID:    "dev-user-01",
		Name:  "Desenvolvedora 🎀",
		Email: "dev@silabala.app",
	}
}

type sessionClaims struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
	jwt.RegisteredClaims
}

func (a *authService) userByEmail(email string) (user, string, error) {
	var u user
	var hash string
	err := a.db.QueryRow(`
		SELECT id, name, email, password_hash, photo_url
		FROM users
		WHERE email = ?
	`, email).Scan(&u.ID, &u.Name, &u.Email, &hash, &u.PhotoURL)
	if err != nil {
		return user{}, "", err
	}
	return u, hash, nil
}

// authenticate validates credentials and returns the matching user. The dev
// account short-circuits with a fixed profile and never touches the table.
func (a *authService) authenticate(email, password string) (user, bool, error) {
	if email == devEmail {
		return devUser(), true, nil
	}

	u, hash, err := a.userByEmail(email)
	if errors.Is(err, sql.ErrNoRows) {
		return user{}, false, nil
	}
	if err != nil {
		return user{}, false, fmt.Errorf("query user credentials: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return user{}, false, nil
	}
	return u, true, nil
}

func (a *authService) createUser(name, email, password string) (user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return user{}, fmt.Errorf("hash password: %w", err)
	}

	u := user{ID: uuid.NewString(), Name: name, Email: email}
	_, err = a.db.Exec(`
		INSERT INTO users (id, name, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, string(hash))
	if err != nil {
		return user{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (a *authService) ensureAdminUser(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	err := a.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := a.createUser("Admin", email, password); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}
	return nil
}

func (a *authService) createSession(u user) (string, error) {
	now := a.now()
	claims := sessionClaims{
		Name:     u.Name,
		PhotoURL: u.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   u.ID,
			Audience:  jwt.ClaimStrings{u.Email},
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.sessionSecret)
}

func (a *authService) verifySession(value string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(value, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSession
		}
		return a.sessionSecret, nil
	})
	if err != nil {
		return nil, errInvalidSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errInvalidSession
	}
	return claims, nil
}

func (a *authService) createPasswordReset(email string) (string, error) {
	token := uuid.NewString()
	_, err := a.db.Exec(`
		INSERT INTO password_resets (token, email, expires_at)
		VALUES (?, ?, ?)
	`, token, email, a.now().Add(time.Hour))
	if err != nil {
		return "", fmt.Errorf("insert password reset: %w", err)
	}
	return token, nil
}

func setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(sessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	u, ok, err := s.auth.authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao autenticar.")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "E-mail ou senha incorretos.")
		return
	}

	session, err := s.auth.createSession(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao criar sessão.")
		return
	}

	setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, u)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Nome e e-mail são obrigatórios.")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres.")
		return
	}

	if _, _, err := s.auth.userByEmail(req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "Este e-mail já está cadastrado.")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusInternalServerError, "Erro ao criar conta.")
		return
	}

	u, err := s.auth.createUser(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao criar conta.")
		return
	}

	session, err := s.auth.createSession(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao criar sessão.")
		return
	}

	setSessionCookie(w, session)
	writeJSON(w, http.StatusCreated, u)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// handlePasswordReset always answers with the same message so the endpoint
// cannot be used to probe which e-mails exist.
func (s *server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Informe o e-mail.")
		return
	}

	if _, _, err := s.auth.userByEmail(req.Email); err == nil {
		if _, err := s.auth.createPasswordReset(req.Email); err != nil {
			log.Printf("create password reset: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Se o e-mail estiver cadastrado, enviaremos as instruções de redefinição.",
	})
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.sessionUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Sessão inválida. Faça login novamente.")
		return
	}

	email := ""
	if len(claims.Audience) > 0 {
		email = claims.Audience[0]
	}
	writeJSON(w, http.StatusOK, user{
		ID:       claims.Subject,
		Name:     claims.Name,
		Email:    email,
		PhotoURL: claims.PhotoURL,
	})
}
