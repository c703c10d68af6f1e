package auth

import (
	"fmt"

	"vaultguard/utils"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

// SetupTwoFactor generates a TOTP secret for the account and stores it as a
// pending enrollment. This is the alternate second-factor flow carried over
// from the authenticator-app path; it records enrollment state only and never
// replaces the emailed OTP as the gate for session issuance.
func (s *DefaultAuthService) SetupTwoFactor(accountID string) (*TwoFactorSetup, error) {
	account, err := s.Repo.GetByID(accountID)
	if err != nil {
		utils.GetLogger().Error("SetupTwoFactor: failed to fetch account", zap.Error(err))
		return nil, fmt.Errorf("two-factor setup failed, please try again")
	}
	if account == nil {
		return nil, ErrOTPInvalidRequest
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "VaultGuard",
		AccountName: account.Email,
	})
	if err != nil {
		utils.GetLogger().Error("SetupTwoFactor: failed to generate TOTP secret", zap.Error(err))
		return nil, fmt.Errorf("two-factor setup failed, please try again")
	}

	if err := s.Repo.SetTwoFactorSecret(account.ID, key.Secret()); err != nil {
		utils.GetLogger().Error("SetupTwoFactor: failed to store TOTP secret", zap.Error(err))
		return nil, fmt.Errorf("two-factor setup failed, please try again")
	}

	return &TwoFactorSetup{Secret: key.Secret(), OtpauthURL: key.URL()}, nil
}

// ConfirmTwoFactor validates one TOTP code against the stored enrollment
// secret and, on success, marks enrollment as completed.
func (s *DefaultAuthService) ConfirmTwoFactor(accountID, code string) error {
	if code == "" {
		return ValidationError{Msg: "code is required"}
	}

	account, err := s.Repo.GetByID(accountID)
	if err != nil {
		utils.GetLogger().Error("ConfirmTwoFactor: failed to fetch account", zap.Error(err))
		return fmt.Errorf("two-factor confirmation failed, please try again")
	}
	if account == nil || account.TwoFactorSecret == "" {
		return ErrTwoFactorNotSetUp
	}

	if !totp.Validate(code, account.TwoFactorSecret) {
		return ErrOTPInvalid
	}

	if err := s.Repo.EnableTwoFactor(account.ID); err != nil {
		utils.GetLogger().Error("ConfirmTwoFactor: failed to enable two-factor", zap.Error(err))
		return fmt.Errorf("two-factor confirmation failed, please try again")
	}
	return nil
}
