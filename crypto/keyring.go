package crypto

// Keyring holds the vault key in process memory for the duration of an
// authenticated client session. It is confined to a single owner and is never
// serialized, logged or sent anywhere; losing the process loses the key, and
// with it access to previously stored items. That is the design, not a bug:
// the server holds no recovery path.
type Keyring struct {
	key string
	set bool
}

// NewKeyring returns an empty keyring.
func NewKeyring() *Keyring {
	return &Keyring{}
}

// Set stores the vault key.
func (k *Keyring) Set(key string) {
	k.key = key
	k.set = key != ""
}

// Get returns the held key, or false when no key is held.
func (k *Keyring) Get() (string, bool) {
	if !k.set {
		return "", false
	}
	return k.key, true
}

// Clear drops the key. Must be called synchronously on logout so no later
// code path in the same process can read a stale key.
func (k *Keyring) Clear() {
	k.key = ""
	k.set = false
}
