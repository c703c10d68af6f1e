package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"vaultguard/models"
	"vaultguard/utils"

	"go.uber.org/zap"
)

const otpLength = 6

// generateOTP produces a fixed-length numeric code from a cryptographically
// strong random source.
func generateOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// issueOTP mints a new one-time password for the account, persists it as the
// single live record (superseding any prior one) and emails it. The record is
// persisted before the send; if delivery fails the record is rolled back and
// issuance fails as a whole, so a stored code always means a sent code.
func (s *DefaultAuthService) issueOTP(account *models.Account) error {
	code, err := generateOTP(otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := s.Clock.Now()
	record := models.OTPRecord{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.OTPTTL),
	}
	if err := s.Repo.SetOTP(account.ID, record); err != nil {
		utils.GetLogger().Error("issueOTP: failed to persist OTP record", zap.Error(err))
		return fmt.Errorf("failed to issue OTP")
	}

	body := fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; text-align: center; color: #333;">
        <h2>Your Verification Code</h2>
        <p>Use the following code to complete your login. This code is valid for %d minutes.</p>
        <p style="font-size: 24px; font-weight: bold; letter-spacing: 2px; background-color: #f0f0f0; padding: 10px 20px; display: inline-block; border-radius: 5px;">
          %s
        </p>
      </div>`, int(s.OTPTTL.Minutes()), code)

	if err := s.Mailer.Send(account.Email, "Your One-Time Password", body); err != nil {
		utils.GetLogger().Error("issueOTP: mail delivery failed, rolling back OTP record",
			zap.String("accountId", account.ID), zap.Error(err))
		if clearErr := s.Repo.ClearOTP(account.ID); clearErr != nil {
			utils.GetLogger().Error("issueOTP: failed to roll back OTP record", zap.Error(clearErr))
		}
		return DeliveryError{Err: err}
	}
	return nil
}

// VerifyOTP validates a submitted one-time password. Expiry is checked lazily
// here; there is no background sweeper. A matching code is consumed with an
// atomic compare-and-delete so replays and superseded codes fail even under
// concurrent verification attempts.
func (s *DefaultAuthService) VerifyOTP(email, code string) (string, error) {
	// Same normalization as Login; an identity accepted at the primary step
	// must resolve to the same account here.
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || code == "" {
		return "", ValidationError{Msg: "email and OTP are required"}
	}

	account, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("VerifyOTP: failed to fetch account", zap.Error(err))
		return "", fmt.Errorf("verification failed, please try again")
	}
	if account == nil || account.OTP == nil {
		return "", ErrOTPInvalidRequest
	}

	if s.Clock.Now().After(account.OTP.ExpiresAt) {
		// An expired code is treated as absent regardless of correctness.
		if err := s.Repo.ClearOTP(account.ID); err != nil {
			utils.GetLogger().Error("VerifyOTP: failed to drop expired OTP record", zap.Error(err))
		}
		return "", ErrOTPExpired
	}

	if account.OTP.Code != code {
		// The record is retained; the user may retry until expiry.
		return "", ErrOTPInvalid
	}

	consumed, err := s.Repo.ClearOTPIfCode(account.ID, code)
	if err != nil {
		utils.GetLogger().Error("VerifyOTP: failed to consume OTP record", zap.Error(err))
		return "", fmt.Errorf("verification failed, please try again")
	}
	if !consumed {
		// Lost a race with a reissue or another verification.
		return "", ErrOTPInvalidRequest
	}

	token, err := utils.GenerateSessionToken(account.ID)
	if err != nil {
		utils.GetLogger().Error("VerifyOTP: failed to issue session token", zap.Error(err))
		return "", fmt.Errorf("verification failed, please try again")
	}
	return token, nil
}
