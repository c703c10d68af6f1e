package vaultRepo

import (
	"vaultguard/models"
)

// VaultRepository defines data access for encrypted vault records. Every
// operation that names an item also names its owner, and the owner is part of
// the query filter, so cross-account access is impossible at the data layer
// regardless of what the service layer checks.
type VaultRepository interface {
	// FindByOwner retrieves all records belonging to the given account.
	FindByOwner(ownerID string) ([]models.VaultRecord, error)
	// GetOwned retrieves a single record by ID, scoped to its owner.
	// Returns nil when absent or owned by someone else.
	GetOwned(id, ownerID string) (*models.VaultRecord, error)
	// Insert stores a new record.
	Insert(record *models.VaultRecord) error
	// UpdateOwned replaces the encrypted fields of an owned record.
	// Returns false when no owned record matched.
	UpdateOwned(id, ownerID string, record *models.VaultRecord) (bool, error)
	// DeleteOwned removes an owned record. Returns false when no owned record matched.
	DeleteOwned(id, ownerID string) (bool, error)
}
