package handlers

import (
	"errors"
	"net/http"

	"vaultguard/models"
	"vaultguard/services/vault"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var vaultService vault.VaultService

// SetVaultService injects the vault service implementation.
func SetVaultService(s vault.VaultService) {
	vaultService = s
}

// ListVaultItemsHandler returns all encrypted records owned by the
// authenticated account. The fields are opaque ciphertexts; decryption
// happens client-side.
func ListVaultItemsHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	records, err := vaultService.ListItems(userID)
	if err != nil {
		getLogger(c).Error("ListVaultItemsHandler: listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, records)
}

// CreateVaultItemHandler stores a new encrypted record.
func CreateVaultItemHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var record models.VaultRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	created, err := vaultService.CreateItem(userID, record)
	if err != nil {
		var validation vault.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validation.Msg})
			return
		}
		getLogger(c).Error("CreateVaultItemHandler: creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateVaultItemHandler replaces the encrypted fields of an owned record.
func UpdateVaultItemHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var record models.VaultRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	updated, err := vaultService.UpdateItem(userID, c.Param("id"), record)
	if err != nil {
		var validation vault.ValidationError
		switch {
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"message": validation.Msg})
		case errors.Is(err, vault.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		default:
			getLogger(c).Error("UpdateVaultItemHandler: update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteVaultItemHandler removes an owned record.
func DeleteVaultItemHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if err := vaultService.DeleteItem(userID, c.Param("id")); err != nil {
		if errors.Is(err, vault.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
			return
		}
		getLogger(c).Error("DeleteVaultItemHandler: deletion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
