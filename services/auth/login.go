package auth

import (
	"fmt"
	"strings"

	"vaultguard/utils"

	"go.uber.org/zap"
)

// Login runs the primary-credential step of the login protocol. A missing
// account and a wrong password are indistinguishable to the caller: both
// reject with the same message, so login cannot be used to enumerate emails.
// On success either an OTP is issued and emailed (second factor pending) or,
// when the deployment does not require a second factor, a session token is
// returned directly.
func (s *DefaultAuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ValidationError{Msg: "email and password are required"}
	}

	account, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("Login: failed to fetch account", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if !verifyPassword(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !s.RequireEmailOTP {
		// Legacy single-factor path: issue the session straight away.
		token, err := utils.GenerateSessionToken(account.ID)
		if err != nil {
			utils.GetLogger().Error("Login: failed to issue session token", zap.Error(err))
			return nil, fmt.Errorf("authentication failed, please try again")
		}
		return &LoginResult{Token: token}, nil
	}

	if err := s.issueOTP(account); err != nil {
		return nil, err
	}
	return &LoginResult{TwoFactorRequired: true}, nil
}
