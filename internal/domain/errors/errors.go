package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrProductUnavailable  = errors.New("product not tradeable")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrOTPExpired          = errors.New("otp expired")
	ErrConsentRequired     = errors.New("consent not given")
	ErrUpstreamUnavailable = errors.New("upstream venue unavailable")
	ErrCartInconsistent    = errors.New("cart left in inconsistent state")
	ErrLegMismatch         = errors.New("linked order legs diverged")
	ErrUnsupportedCartType = errors.New("unsupported cart transaction kind")
	ErrInvalidTransition   = errors.New("illegal status transition")
	ErrUnmappedStatus      = errors.New("unmapped upstream status")
	ErrInvalidID           = errors.New("invalid document id")
)
