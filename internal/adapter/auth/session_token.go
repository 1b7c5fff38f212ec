package auth

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/example/shop-fulfiller/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// ErrSessionExpired — токен сессии просрочен; клиент должен получить новый.
var ErrSessionExpired = errors.New("session token expired")

type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// SessionTokenVerifier — проверка токенов сессии встроенного приложения (HS256, aud = API key).
type SessionTokenVerifier struct {
	APIKey    string
	APISecret string
	Leeway    time.Duration
	Now       func() time.Time
}

// Verify — вернуть домен магазина из claim "dest".
func (v SessionTokenVerifier) Verify(raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.APIKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.Leeway),
	}
	if v.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(v.Now))
	}

	var claims sessionClaims
	_, err := jwt.NewParser(opts...).ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(v.APISecret), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", ErrSessionExpired
	}
	if err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return "", fmt.Errorf("session token: invalid dest %q", claims.Dest)
	}
	return domain.NormalizeShop(dest.Host), nil
}
