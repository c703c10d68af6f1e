package vaultRepo

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

// MongoVaultRepo implements VaultRepository using MongoDB.
type MongoVaultRepo struct {
	coll *mongo.Collection
}

// NewMongoVaultRepo creates a new instance of VaultRepository using MongoDB.
func NewMongoVaultRepo() VaultRepository {
	coll := database.MongoClient.Database(config.AppConfig.MongoDB).Collection("vault_items")
	repo := &MongoVaultRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoVaultRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// FindByOwner retrieves all records belonging to the given account.
func (r *MongoVaultRepo) FindByOwner(ownerID string) ([]models.VaultRecord, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve vault records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.VaultRecord
	for cursor.Next(ctx) {
		var rec models.VaultRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode vault record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetOwned retrieves a single record by ID, scoped to its owner.
func (r *MongoVaultRepo) GetOwned(id, ownerID string) (*models.VaultRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var rec models.VaultRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "userId": ownerID}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch vault record with id %s: %w", id, err)
	}
	return &rec, nil
}

// Insert stores a new record.
func (r *MongoVaultRepo) Insert(record *models.VaultRecord) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert vault record: %w", err)
	}
	return nil
}

// UpdateOwned replaces the encrypted fields of an owned record.
func (r *MongoVaultRepo) UpdateOwned(id, ownerID string, record *models.VaultRecord) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":     record.Title,
		"username":  record.Username,
		"password":  record.Password,
		"url":       record.URL,
		"notes":     record.Notes,
		"updatedAt": time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "userId": ownerID}, update)
	if err != nil {
		return false, fmt.Errorf("failed to update vault record with id %s: %w", id, err)
	}
	return result.MatchedCount == 1, nil
}

// DeleteOwned removes an owned record.
func (r *MongoVaultRepo) DeleteOwned(id, ownerID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": ownerID})
	if err != nil {
		return false, fmt.Errorf("failed to delete vault record with id %s: %w", id, err)
	}
	return result.DeletedCount == 1, nil
}
