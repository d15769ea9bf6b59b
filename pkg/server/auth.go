package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const apiKeyHeader = "X-Api-Key"

var ErrUnauthorized = errors.New("unauthorized")

// Authenticator guards the admin endpoints. A request passes with the
// configured api key or with an HS256 token carrying the admin role.
// With neither configured every admin request is rejected.
type Authenticator struct {
	ApiKey string
	Secret []byte
}

func (a *Authenticator) Enabled() bool {
	return a.ApiKey != "" || len(a.Secret) > 0
}

func (a *Authenticator) CreateToken(subject string, ttl time.Duration) (string, error) {
	if len(a.Secret) == 0 {
		return "", errors.New("no token secret configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub":  subject,
			"role": "admin",
			"exp":  time.Now().Add(ttl).Unix(),
		})
	return token.SignedString(a.Secret)
}

func (a *Authenticator) validToken(tokenString string) error {
	if len(a.Secret) == 0 {
		return ErrUnauthorized
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return ErrUnauthorized
	}
	return nil
}

func (a *Authenticator) Authorize(r *http.Request) error {
	if key := r.Header.Get(apiKeyHeader); key != "" && a.ApiKey != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.ApiKey)) == 1 {
			return nil
		}
		return ErrUnauthorized
	}
	auth := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(auth, "Bearer ")
	if !found || tokenString == "" {
		return ErrUnauthorized
	}
	return a.validToken(tokenString)
}

func (a *Authenticator) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.Authorize(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
