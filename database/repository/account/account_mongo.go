package accountRepo

import (
	"context"
	"fmt"
	"time"

	"vaultguard/config"
	"vaultguard/database"
	"vaultguard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountRepo implements AccountRepository using MongoDB.
type MongoAccountRepo struct {
	coll *mongo.Collection
}

// NewMongoAccountRepo creates a new instance of AccountRepository using MongoDB.
func NewMongoAccountRepo() AccountRepository {
	coll := database.MongoClient.Database(config.AppConfig.MongoDB).Collection("accounts")
	repo := &MongoAccountRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoAccountRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves an account by its unique ID.
func (r *MongoAccountRepo) GetByID(id string) (*models.Account, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var account models.Account
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&account); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch account with id %s: %w", id, err)
	}
	return &account, nil
}

// GetByEmail retrieves an account by its email address.
func (r *MongoAccountRepo) GetByEmail(email string) (*models.Account, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var account models.Account
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&account); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch account with email %s: %w", email, err)
	}
	return &account, nil
}

// Create inserts a new account document.
func (r *MongoAccountRepo) Create(account *models.Account) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// SetOTP atomically replaces the pending OTP record in a single update, so
// two concurrent issuances can never leave both codes live.
func (r *MongoAccountRepo) SetOTP(id string, otp models.OTPRecord) error {
	return r.updateOne(id, bson.M{"$set": bson.M{"otp": otp, "updatedAt": time.Now()}})
}

// ClearOTP unconditionally drops the pending OTP record.
func (r *MongoAccountRepo) ClearOTP(id string) error {
	return r.updateOne(id, bson.M{
		"$unset": bson.M{"otp": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
}

// ClearOTPIfCode consumes the pending OTP record only if it still carries the
// given code. The filter makes consumption a compare-and-delete, so a code
// that was superseded or already verified no longer matches.
func (r *MongoAccountRepo) ClearOTPIfCode(id, code string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "otp.code": code}
	update := bson.M{
		"$unset": bson.M{"otp": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to consume OTP for account %s: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}

// UpdatePasswordHash replaces the stored password hash.
func (r *MongoAccountRepo) UpdatePasswordHash(id, passwordHash string) error {
	return r.updateOne(id, bson.M{"$set": bson.M{"passwordHash": passwordHash, "updatedAt": time.Now()}})
}

// SetTwoFactorSecret stores a TOTP enrollment secret.
func (r *MongoAccountRepo) SetTwoFactorSecret(id, secret string) error {
	return r.updateOne(id, bson.M{"$set": bson.M{"twoFactorSecret": secret, "updatedAt": time.Now()}})
}

// EnableTwoFactor marks TOTP enrollment as completed.
func (r *MongoAccountRepo) EnableTwoFactor(id string) error {
	return r.updateOne(id, bson.M{"$set": bson.M{"twoFactorEnabled": true, "updatedAt": time.Now()}})
}

func (r *MongoAccountRepo) updateOne(id string, update bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update account with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("account with id %s not found", id)
	}
	return nil
}
