package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/shop-fulfiller/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testKey    = "app-key"
	testSecret = "app-secret"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, secret, aud, dest string, exp time.Time) string {
	t.Helper()
	claims := sessionClaims{
		Dest: dest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    dest + "/admin",
			Audience:  jwt.ClaimStrings{aud},
			ExpiresAt: jwt.NewNumericDate(exp),
			NotBefore: jwt.NewNumericDate(exp.Add(-2 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Minute)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func testVerifier() SessionTokenVerifier {
	return SessionTokenVerifier{APIKey: testKey, APISecret: testSecret, Now: func() time.Time { return testNow }}
}

func TestSessionTokenVerifier(t *testing.T) {
	valid := testNow.Add(30 * time.Second)
	tests := []struct {
		name     string
		token    string
		wantShop string
		wantErr  error
	}{
		{name: "valid", token: signToken(t, testSecret, testKey, "https://demo.myshopify.com", valid), wantShop: "demo.myshopify.com"},
		{name: "expired", token: signToken(t, testSecret, testKey, "https://demo.myshopify.com", testNow.Add(-time.Minute)), wantErr: ErrSessionExpired},
		{name: "wrong secret", token: signToken(t, "other", testKey, "https://demo.myshopify.com", valid)},
		{name: "wrong audience", token: signToken(t, testSecret, "someone-else", "https://demo.myshopify.com", valid)},
		{name: "no dest", token: signToken(t, testSecret, testKey, "", valid)},
		{name: "garbage", token: "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shop, err := testVerifier().Verify(tt.token)
			if tt.wantShop != "" {
				if err != nil || shop != tt.wantShop {
					t.Fatalf("Verify() = %q, %v; want %q", shop, err, tt.wantShop)
				}
				return
			}
			if err == nil {
				t.Fatalf("Verify() = %q, nil; want error", shop)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolver(t *testing.T) {
	validToken := signToken(t, testSecret, testKey, "https://demo.myshopify.com", testNow.Add(time.Minute))
	expiredToken := signToken(t, testSecret, testKey, "https://demo.myshopify.com", testNow.Add(-time.Minute))
	resolver := Resolver{Sessions: testVerifier(), SharedSecret: "s3cret", SecretHeader: "X-Fulfiller-Secret"}

	tests := []struct {
		name     string
		bearer   string
		secret   string
		wantKind domain.PrincipalKind
		wantShop string
	}{
		{name: "valid session, no secret", bearer: validToken, wantKind: domain.PrincipalSession, wantShop: "demo.myshopify.com"},
		{name: "valid session wins over secret", bearer: validToken, secret: "s3cret", wantKind: domain.PrincipalSession, wantShop: "demo.myshopify.com"},
		{name: "expired session, correct secret", bearer: expiredToken, secret: "s3cret", wantKind: domain.PrincipalAPIKey},
		{name: "no session, correct secret", secret: "s3cret", wantKind: domain.PrincipalAPIKey},
		{name: "invalid session, wrong secret", bearer: "junk", secret: "nope", wantKind: domain.PrincipalNone},
		{name: "invalid session, missing secret", bearer: expiredToken, wantKind: domain.PrincipalNone},
		{name: "nothing", wantKind: domain.PrincipalNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/fulfill", nil)
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			if tt.secret != "" {
				req.Header.Set("X-Fulfiller-Secret", tt.secret)
			}

			p, err := resolver.Resolve(req)
			if tt.wantKind == domain.PrincipalNone {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					t.Fatalf("Resolve() error = %v, want ErrUnauthenticated", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if p.Kind != tt.wantKind || p.Shop != tt.wantShop {
				t.Errorf("Resolve() = %+v, want kind %v shop %q", p, tt.wantKind, tt.wantShop)
			}
		})
	}
}

func TestResolverIDTokenQueryParam(t *testing.T) {
	token := signToken(t, testSecret, testKey, "https://demo.myshopify.com", testNow.Add(time.Minute))
	req := httptest.NewRequest(http.MethodGet, "/api/fulfill?id_token="+token, nil)

	p, err := Resolver{Sessions: testVerifier()}.Resolve(req)
	if err != nil || p.Kind != domain.PrincipalSession {
		t.Fatalf("Resolve() = %+v, %v; want session principal", p, err)
	}
}

func TestResolverEmptySharedSecretDisablesFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/fulfill", nil)
	req.Header.Set(DefaultSecretHeader, "")

	if _, err := (Resolver{Sessions: testVerifier()}).Resolve(req); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("Resolve() error = %v, want ErrUnauthenticated", err)
	}
}
