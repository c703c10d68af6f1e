package auth

import (
	"fmt"
	"strings"

	"vaultguard/models"
	"vaultguard/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignUp validates the registration details, hashes the password and creates
// the account. The plaintext password is never stored.
func (s *DefaultAuthService) SignUp(email, password string) (*models.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ValidationError{Msg: "email and password are required"}
	}

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to check for existing account", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(account); err != nil {
		utils.GetLogger().Error("SignUp: failed to create account", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	return account, nil
}

// verifyPassword compares a submitted password against the stored bcrypt
// hash. bcrypt performs the comparison in constant time; the result is a bare
// boolean so the caller alone decides what to tell the client.
func verifyPassword(supplied, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(supplied)) == nil
}
