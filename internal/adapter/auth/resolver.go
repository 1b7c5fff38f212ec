package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/shop-fulfiller/internal/domain"
)

// DefaultSecretHeader — заголовок с общим секретом для фоновых вызовов.
const DefaultSecretHeader = "X-Fulfiller-Secret"

var errNoSessionToken = errors.New("no session token")

type SessionVerifier interface {
	Verify(token string) (shop string, err error)
}

// Resolver — сначала сессия, при её отказе общий секрет. Без повторов.
type Resolver struct {
	Sessions     SessionVerifier
	SharedSecret string
	SecretHeader string
}

// Resolve — вернуть Principal или ErrUnauthenticated. Для PrincipalAPIKey
// магазин не заполнен: его определяет нормализатор запроса.
func (r Resolver) Resolve(req *http.Request) (domain.Principal, error) {
	sessionErr := errNoSessionToken
	if token := sessionToken(req); token != "" && r.Sessions != nil {
		shop, err := r.Sessions.Verify(token)
		if err == nil && shop != "" {
			return domain.SessionPrincipal(shop), nil
		}
		if err == nil {
			err = errors.New("session token has no shop")
		}
		sessionErr = err
	}

	if r.sharedSecretMatches(req) {
		return domain.APIKeyPrincipal(), nil
	}
	return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, sessionErr)
}

func (r Resolver) sharedSecretMatches(req *http.Request) bool {
	if r.SharedSecret == "" {
		return false
	}
	header := r.SecretHeader
	if header == "" {
		header = DefaultSecretHeader
	}
	got := req.Header.Get(header)
	return subtle.ConstantTimeCompare([]byte(got), []byte(r.SharedSecret)) == 1
}

func sessionToken(req *http.Request) string {
	if h := req.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(req.URL.Query().Get("id_token"))
}
