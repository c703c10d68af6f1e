package models

import "time"

// VaultItem is the plaintext view of a stored credential. It exists only on
// the client side of the encryption boundary; the server never sees one.
type VaultItem struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}

// VaultRecord is the stored form of a vault item. Every logical field is an
// independent ciphertext; the server treats them as opaque strings. Optional
// fields carry the encryption of the empty string rather than being omitted,
// so the payload shape does not leak which fields are populated.
type VaultRecord struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"password"`
	URL       string    `bson:"url" json:"url"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
