package domain

// Общие доменные ошибки
var (
	ErrUnauthenticated = authError("unauthenticated")
	ErrMissingInvoice  = missingFieldError("invoice number is required")
	ErrMissingTenant   = missingFieldError("shop is required")
	ErrNotFound        = notFoundError("not found")
	ErrUpstream        = upstreamError("upstream unavailable")
	ErrValidation      = validationError("invalid data")
)

type authError string

func (e authError) Error() string { return string(e) }

type missingFieldError string

func (e missingFieldError) Error() string { return string(e) }

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type upstreamError string

func (e upstreamError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }
