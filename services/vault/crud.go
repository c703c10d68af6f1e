package vault

import (
	"fmt"

	"vaultguard/models"
	"vaultguard/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// validateRecord checks the required encrypted fields. Optional fields carry
// the encryption of the empty string, so every field is expected non-empty.
func validateRecord(record models.VaultRecord) error {
	if record.Title == "" || record.Username == "" || record.Password == "" {
		return ValidationError{Msg: "title, username and password are required"}
	}
	return nil
}

// ListItems returns all records owned by the account.
func (s *DefaultVaultService) ListItems(ownerID string) ([]models.VaultRecord, error) {
	records, err := s.Repo.FindByOwner(ownerID)
	if err != nil {
		utils.GetLogger().Error("ListItems: failed to fetch vault records", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve vault items")
	}
	if records == nil {
		records = []models.VaultRecord{}
	}
	return records, nil
}

// CreateItem stores a new record for the account. Ownership is fixed at
// creation time and cannot be supplied by the client.
func (s *DefaultVaultService) CreateItem(ownerID string, record models.VaultRecord) (*models.VaultRecord, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	record.ID = uuid.NewString()
	record.UserID = ownerID
	if err := s.Repo.Insert(&record); err != nil {
		utils.GetLogger().Error("CreateItem: failed to insert vault record", zap.Error(err))
		return nil, fmt.Errorf("failed to save vault item")
	}
	return &record, nil
}

// UpdateItem replaces the encrypted fields of an owned record. The owner is
// part of the update filter, so updating someone else's record matches
// nothing.
func (s *DefaultVaultService) UpdateItem(ownerID, itemID string, record models.VaultRecord) (*models.VaultRecord, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	matched, err := s.Repo.UpdateOwned(itemID, ownerID, &record)
	if err != nil {
		utils.GetLogger().Error("UpdateItem: failed to update vault record", zap.Error(err))
		return nil, fmt.Errorf("failed to update vault item")
	}
	if !matched {
		return nil, ErrItemNotFound
	}

	updated, err := s.Repo.GetOwned(itemID, ownerID)
	if err != nil || updated == nil {
		utils.GetLogger().Error("UpdateItem: failed to reload vault record", zap.Error(err))
		return nil, fmt.Errorf("failed to update vault item")
	}
	return updated, nil
}

// DeleteItem removes an owned record.
func (s *DefaultVaultService) DeleteItem(ownerID, itemID string) error {
	deleted, err := s.Repo.DeleteOwned(itemID, ownerID)
	if err != nil {
		utils.GetLogger().Error("DeleteItem: failed to delete vault record", zap.Error(err))
		return fmt.Errorf("failed to delete vault item")
	}
	if !deleted {
		return ErrItemNotFound
	}
	return nil
}
