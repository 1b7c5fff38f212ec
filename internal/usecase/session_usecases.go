package usecase

import (
	"context"
	"encoding/json"

	"github.com/example/shop-fulfiller/internal/domain"
)

// LoadSessions — загрузить все сессии магазинов из репозитория в кэш при старте.
type LoadSessions struct {
	Repo  domain.SessionRepository
	Cache domain.SessionCache
}

func (uc LoadSessions) Execute(ctx context.Context) error {
	return uc.Repo.LoadAll(ctx, func(shop string, raw []byte) error {
		var s domain.ShopSession
		if err := json.Unmarshal(raw, &s); err != nil {
			// пропускаем битые записи, не прерывая полную загрузку
			return nil
		}
		uc.Cache.Set(shop, s)
		return nil
	})
}

// ProcessIncomingSession — сохранить входящую сессию магазина и обновить кэш.
type ProcessIncomingSession struct {
	Repo  domain.SessionRepository
	Cache domain.SessionCache
}

func (uc ProcessIncomingSession) Execute(ctx context.Context, raw []byte) error {
	var s domain.ShopSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	s.Shop = domain.NormalizeShop(s.Shop)
	if err := s.Validate(); err != nil {
		return err
	}
	stored, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := uc.Repo.Upsert(ctx, s.Shop, stored); err != nil {
		return err
	}
	uc.Cache.Set(s.Shop, s)
	return nil
}

// RedactShop — удалить сессию магазина (shop/redact, app/uninstalled).
type RedactShop struct {
	Repo  domain.SessionRepository
	Cache domain.SessionCache
}

func (uc RedactShop) Execute(ctx context.Context, shop string) error {
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return domain.ErrValidation
	}
	if err := uc.Repo.Delete(ctx, shop); err != nil {
		return err
	}
	uc.Cache.Delete(shop)
	return nil
}
