package crypto

import (
	"fmt"

	"vaultguard/models"
)

// EncryptItem encrypts every logical field of a vault item independently and
// returns the storage form. Field-level ciphertexts keep partial reads and
// future migrations possible without re-encrypting whole records. Empty
// optional fields (url, notes) encrypt the empty string rather than being
// omitted.
func EncryptItem(item models.VaultItem, key string) (models.VaultRecord, error) {
	rec := models.VaultRecord{ID: item.ID}

	fields := []struct {
		name string
		src  string
		dst  *string
	}{
		{"title", item.Title, &rec.Title},
		{"username", item.Username, &rec.Username},
		{"password", item.Password, &rec.Password},
		{"url", item.URL, &rec.URL},
		{"notes", item.Notes, &rec.Notes},
	}
	for _, f := range fields {
		ct, err := Encrypt(f.src, key)
		if err != nil {
			return models.VaultRecord{}, fmt.Errorf("failed to encrypt %s: %w", f.name, err)
		}
		*f.dst = ct
	}
	return rec, nil
}

// DecryptRecord decrypts every field of a stored record. If any field fails
// to decrypt the whole record is reported as undecryptable with
// ErrDecryptionFailed, so one corrupted record never breaks listing the rest
// of the vault. With the key that produced the record this is the exact
// inverse of EncryptItem; under any other key it always fails.
func DecryptRecord(rec models.VaultRecord, key string) (models.VaultItem, error) {
	item := models.VaultItem{ID: rec.ID}

	fields := []struct {
		src string
		dst *string
	}{
		{rec.Title, &item.Title},
		{rec.Username, &item.Username},
		{rec.Password, &item.Password},
		{rec.URL, &item.URL},
		{rec.Notes, &item.Notes},
	}
	for _, f := range fields {
		pt, err := Decrypt(f.src, key)
		if err != nil {
			return models.VaultItem{}, err
		}
		*f.dst = pt
	}
	return item, nil
}
