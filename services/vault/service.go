package vault

import (
	"errors"

	vaultRepo "vaultguard/database/repository/vault"
	"vaultguard/models"
)

// ErrItemNotFound is returned when no record matches the ID for the given
// owner. A foreign item and a missing item are indistinguishable on purpose.
var ErrItemNotFound = errors.New("item not found")

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// VaultService manages encrypted vault records on behalf of their owner. The
// field values are ciphertexts produced client-side; this service never sees,
// logs or inspects plaintext.
type VaultService interface {
	// ListItems returns all records owned by the account.
	ListItems(ownerID string) ([]models.VaultRecord, error)
	// CreateItem stores a new record for the account.
	CreateItem(ownerID string, record models.VaultRecord) (*models.VaultRecord, error)
	// UpdateItem replaces the encrypted fields of an owned record.
	UpdateItem(ownerID, itemID string, record models.VaultRecord) (*models.VaultRecord, error)
	// DeleteItem removes an owned record.
	DeleteItem(ownerID, itemID string) error
}

// DefaultVaultService is the production implementation.
type DefaultVaultService struct {
	Repo vaultRepo.VaultRepository
}
