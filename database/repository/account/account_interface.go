package accountRepo

import (
	"vaultguard/models"
)

// AccountRepository defines methods for account data access. The OTP methods
// are atomic single-document updates; that is what guarantees at most one live
// OTP per account even under concurrent logins.
type AccountRepository interface {
	// GetByID retrieves an account by its unique ID. Returns nil when absent.
	GetByID(id string) (*models.Account, error)
	// GetByEmail retrieves an account by its email address. Returns nil when absent.
	GetByEmail(email string) (*models.Account, error)
	// Create inserts a new account record.
	Create(account *models.Account) error
	// SetOTP atomically replaces the pending OTP record, superseding any prior one.
	SetOTP(id string, otp models.OTPRecord) error
	// ClearOTP unconditionally drops the pending OTP record.
	ClearOTP(id string) error
	// ClearOTPIfCode drops the pending OTP record only if it still carries the
	// given code. Returns false when the record was already consumed, replaced
	// or never existed, which is what makes verification single-use.
	ClearOTPIfCode(id, code string) (bool, error)
	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(id, passwordHash string) error
	// SetTwoFactorSecret stores a TOTP enrollment secret.
	SetTwoFactorSecret(id, secret string) error
	// EnableTwoFactor marks TOTP enrollment as completed.
	EnableTwoFactor(id string) error
}
