package domain

import (
	"strings"
	"time"
)

// ShopSession — оффлайн-токен доступа к Admin API конкретного магазина.
type ShopSession struct {
	Shop        string    `json:"shop"`
	AccessToken string    `json:"access_token"`
	Scope       string    `json:"scope,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (s ShopSession) Validate() error {
	if strings.TrimSpace(s.Shop) == "" || strings.TrimSpace(s.AccessToken) == "" {
		return ErrValidation
	}
	return nil
}

// NormalizeShop — привести домен магазина к виду "name.myshopify.com".
func NormalizeShop(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, "https://")
	v = strings.TrimPrefix(v, "http://")
	return strings.TrimSuffix(v, "/")
}
