package domain

// PrincipalKind — каким способом вызывающий подтвердил личность.
type PrincipalKind int

const (
	// PrincipalNone — не аутентифицирован.
	PrincipalNone PrincipalKind = iota
	// PrincipalSession — валидный токен сессии; магазин берётся из токена.
	PrincipalSession
	// PrincipalAPIKey — общий секрет в заголовке; магазин передаётся в запросе.
	PrincipalAPIKey
)

func (k PrincipalKind) String() string {
	switch k {
	case PrincipalSession:
		return "session"
	case PrincipalAPIKey:
		return "api_key"
	default:
		return "none"
	}
}

// Principal — личность вызывающего. Ровно один вариант на запрос.
type Principal struct {
	Kind PrincipalKind
	Shop string
}

func SessionPrincipal(shop string) Principal {
	return Principal{Kind: PrincipalSession, Shop: shop}
}

// APIKeyPrincipal — магазин ещё неизвестен, его определит нормализатор запроса.
func APIKeyPrincipal() Principal {
	return Principal{Kind: PrincipalAPIKey}
}

func (p Principal) Authenticated() bool { return p.Kind != PrincipalNone }
