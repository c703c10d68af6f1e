package auth

import (
	"time"

	accountRepo "vaultguard/database/repository/account"
	"vaultguard/models"
	"vaultguard/utils"
)

// LoginResult is the outcome of a successful primary-credential check: either
// a second factor is now pending, or (when the deployment does not require
// one) a session token was issued directly.
type LoginResult struct {
	TwoFactorRequired bool
	Token             string
}

// TwoFactorSetup carries a freshly generated TOTP enrollment secret.
type TwoFactorSetup struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauthUrl"`
}

// AuthService defines the login protocol: primary credentials, the emailed
// one-time password, and session issuance. Each step is a distinct named
// operation; multiplexing them onto one endpoint is a routing concern this
// interface does not have.
type AuthService interface {
	// SignUp creates a new account with a hashed password.
	SignUp(email, password string) (*models.Account, error)
	// Login checks primary credentials and, when a second factor is required,
	// issues and emails a one-time password.
	Login(email, password string) (*LoginResult, error)
	// VerifyOTP validates a submitted one-time password and, on success,
	// consumes it and returns a session token.
	VerifyOTP(email, code string) (string, error)
	// SetupTwoFactor generates a TOTP enrollment secret for the account.
	// Enrollment is an alternate flow; it never gates session issuance.
	SetupTwoFactor(accountID string) (*TwoFactorSetup, error)
	// ConfirmTwoFactor checks one TOTP code and completes enrollment.
	ConfirmTwoFactor(accountID, code string) error
}

// DefaultAuthService is the production implementation. The mailer and clock
// are injected so tests can substitute fakes.
type DefaultAuthService struct {
	Repo            accountRepo.AccountRepository
	Mailer          utils.Mailer
	Clock           Clock
	OTPTTL          time.Duration
	RequireEmailOTP bool
}

// NewDefaultAuthService wires an auth service with the system clock.
func NewDefaultAuthService(repo accountRepo.AccountRepository, mailer utils.Mailer, otpTTL time.Duration, requireEmailOTP bool) *DefaultAuthService {
	return &DefaultAuthService{
		Repo:            repo,
		Mailer:          mailer,
		Clock:           systemClock{},
		OTPTTL:          otpTTL,
		RequireEmailOTP: requireEmailOTP,
	}
}
