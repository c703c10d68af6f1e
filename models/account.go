package models

import "time"

// OTPRecord is the pending one-time password embedded on an account. At most
// one record is live per account; issuing a new one replaces it atomically.
type OTPRecord struct {
	Code      string    `bson:"code" json:"-"`
	IssuedAt  time.Time `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

// Account represents a vault owner. The password is stored only as a bcrypt
// hash; the vault key is never present here or anywhere else server-side.
type Account struct {
	ID           string     `bson:"id" json:"id"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	OTP          *OTPRecord `bson:"otp,omitempty" json:"-"`

	// Alternate TOTP enrollment. Enrollment state only; the emailed OTP is
	// what gates session issuance.
	TwoFactorSecret  string `bson:"twoFactorSecret,omitempty" json:"-"`
	TwoFactorEnabled bool   `bson:"twoFactorEnabled" json:"twoFactorEnabled"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
