// internal/httpserver/auth.go
//
// Admin authentication: one shared password, exchanged for a short-lived
// HS256 JWT carried in a cookie (or Authorization: Bearer). Configure either
// ADMIN_PASSWORD_HASH (bcrypt, preferred) or ADMIN_PASSWORD (plaintext).
// Neither being set is a configuration error: login fails with 500 and an
// error log, while the player surface keeps working.

package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const adminCookieName = "whenwasit_admin"

type adminLoginReq struct {
	Password string `json:"password"`
}

// handleAdminLogin verifies the shared password and sets the admin cookie.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ok, err := checkAdminPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("admin auth misconfigured")
		writeError(w, http.StatusInternalServerError, "admin auth not configured")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	tok, exp, err := signAdminJWT()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setAdminCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleAdminLogout clears the admin cookie.
func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	clearAdminCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// checkAdminPassword compares against ADMIN_PASSWORD_HASH (bcrypt) or, when
// no hash is configured, ADMIN_PASSWORD in constant time.
func checkAdminPassword(pw string) (bool, error) {
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil, nil
	}
	if plain := os.Getenv("ADMIN_PASSWORD"); plain != "" {
		return subtle.ConstantTimeCompare([]byte(plain), []byte(pw)) == 1, nil
	}
	return false, errMissingAdminConfig
}

var errMissingAdminConfig = configError("set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")

type configError string

func (e configError) Error() string { return string(e) }

// signAdminJWT creates an HS256 token with a 12h expiry.
func signAdminJWT() (string, time.Time, error) {
	exp := time.Now().Add(12 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(jwtSecret()))
	return ss, exp, err
}

// requireAdmin enforces a valid admin JWT on curation routes.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerOrCookie(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret()), nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func jwtSecret() string { return getEnv("JWT_SECRET", "dev_secret_change_me") }

// setAdminCookie writes the admin token cookie with appropriate security
// attributes.
func setAdminCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := os.Getenv("APP_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearAdminCookie deletes the admin token cookie.
func clearAdminCookie(w http.ResponseWriter) {
	secure := os.Getenv("APP_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a token from the Authorization header or cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(adminCookieName); err == nil {
		return c.Value
	}
	return ""
}
