// Package client implements the vault's HTTP client. All encryption and
// decryption happens here, behind the server's back: the vault key is held in
// the client process only, and every field that leaves this package is
// ciphertext.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"vaultguard/crypto"
	"vaultguard/models"
)

// ErrLocked is returned when a vault operation is attempted before the vault
// key has been supplied.
var ErrLocked = errors.New("vault is locked: master password required")

// ErrSecondFactorRequired signals that login succeeded and an OTP was emailed;
// the caller must follow up with VerifyOTP.
var ErrSecondFactorRequired = errors.New("second factor required: check your email for the code")

// APIError carries the server's rejection message and status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

// VaultClient talks to the vault server and owns the client side of the
// zero-knowledge boundary. The session rides in a cookie jar; the vault key
// lives in the keyring and nowhere else.
type VaultClient struct {
	baseURL string
	http    *http.Client
	keyring *crypto.Keyring
}

// New creates a client for the given server base URL.
func New(baseURL string) (*VaultClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &VaultClient{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
		keyring: crypto.NewKeyring(),
	}, nil
}

func (c *VaultClient) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return c.decodeResponse(resp, out)
}

func (c *VaultClient) doJSON(method, path string, payload, out any) error {
	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return c.decodeResponse(resp, out)
}

func (c *VaultClient) decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// SignUp registers a new account.
func (c *VaultClient) SignUp(email, password string) error {
	return c.postJSON("/api/auth/signup", map[string]string{"email": email, "password": password}, nil)
}

// Login submits primary credentials. When the server requires a second factor
// it returns ErrSecondFactorRequired and the caller proceeds with VerifyOTP.
func (c *VaultClient) Login(email, password string) error {
	var resp struct {
		TwoFactorRequired bool `json:"twoFactorRequired"`
	}
	if err := c.postJSON("/api/auth/login", map[string]string{"email": email, "password": password}, &resp); err != nil {
		return err
	}
	if resp.TwoFactorRequired {
		return ErrSecondFactorRequired
	}
	return nil
}

// VerifyOTP completes the login with the emailed code; the session cookie
// lands in the jar.
func (c *VaultClient) VerifyOTP(email, code string) error {
	return c.postJSON("/api/auth/verify-otp", map[string]string{"email": email, "otp": code}, nil)
}

// Unlock stores the master password as the vault key. It is never sent to the
// server; a wrong password simply makes every record fail to decrypt.
func (c *VaultClient) Unlock(masterPassword string) error {
	if masterPassword == "" {
		return crypto.ErrEmptyKey
	}
	c.keyring.Set(masterPassword)
	return nil
}

// Lock drops the vault key from memory.
func (c *VaultClient) Lock() {
	c.keyring.Clear()
}

// Logout ends the session and locks the vault.
func (c *VaultClient) Logout() error {
	c.keyring.Clear()
	return c.postJSON("/api/auth/logout", struct{}{}, nil)
}

// List fetches and decrypts all items. Records that fail to decrypt are
// reported by ID instead of aborting the listing, so one corrupted record
// never hides the rest of the vault.
func (c *VaultClient) List() (items []models.VaultItem, undecryptable []string, err error) {
	key, ok := c.keyring.Get()
	if !ok {
		return nil, nil, ErrLocked
	}

	var records []models.VaultRecord
	if err := c.doJSON(http.MethodGet, "/api/vault", nil, &records); err != nil {
		return nil, nil, err
	}

	for _, rec := range records {
		item, err := crypto.DecryptRecord(rec, key)
		if err != nil {
			undecryptable = append(undecryptable, rec.ID)
			continue
		}
		items = append(items, item)
	}
	return items, undecryptable, nil
}

// Add encrypts and stores a new item, returning it with its assigned ID.
func (c *VaultClient) Add(item models.VaultItem) (models.VaultItem, error) {
	key, ok := c.keyring.Get()
	if !ok {
		return models.VaultItem{}, ErrLocked
	}

	rec, err := crypto.EncryptItem(item, key)
	if err != nil {
		return models.VaultItem{}, err
	}

	var created models.VaultRecord
	if err := c.postJSON("/api/vault", rec, &created); err != nil {
		return models.VaultItem{}, err
	}
	item.ID = created.ID
	return item, nil
}

// Update re-encrypts and replaces an existing item.
func (c *VaultClient) Update(item models.VaultItem) error {
	if item.ID == "" {
		return fmt.Errorf("item ID is required")
	}
	key, ok := c.keyring.Get()
	if !ok {
		return ErrLocked
	}

	rec, err := crypto.EncryptItem(item, key)
	if err != nil {
		return err
	}
	return c.doJSON(http.MethodPut, "/api/vault/"+item.ID, rec, nil)
}

// Delete removes an item.
func (c *VaultClient) Delete(id string) error {
	return c.doJSON(http.MethodDelete, "/api/vault/"+id, nil, nil)
}
