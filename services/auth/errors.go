package auth

import (
	"errors"
	"fmt"
)

// Caller-facing authentication errors. The wording is deliberately uniform so
// responses reveal nothing about which check failed; specific sub-kinds are
// only logged internally.
var (
	// ErrInvalidCredentials covers both "no such account" and "wrong password".
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrOTPInvalidRequest means no live OTP exists for the account: never
	// issued, already consumed, or superseded by a newer code.
	ErrOTPInvalidRequest = errors.New("invalid request, please try logging in again")
	// ErrOTPExpired means the pending OTP outlived its window.
	ErrOTPExpired = errors.New("OTP has expired, please try logging in again")
	// ErrOTPInvalid means the submitted code does not match the live one.
	ErrOTPInvalid = errors.New("invalid OTP")
	// ErrEmailTaken is returned when signup collides with an existing account.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrTwoFactorNotSetUp is returned when enrollment confirmation arrives
	// before a secret was generated.
	ErrTwoFactorNotSetUp = errors.New("two-factor enrollment has not been set up")
)

// ValidationError reports missing or malformed input. It is raised before any
// side effect is performed.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// DeliveryError wraps a mail collaborator failure. It is kept distinct from
// the authentication errors so operators can tell infrastructure failures
// apart from user mistakes; the caller-facing message stays generic.
type DeliveryError struct {
	Err error
}

func (e DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver OTP: %v", e.Err)
}

func (e DeliveryError) Unwrap() error {
	return e.Err
}
