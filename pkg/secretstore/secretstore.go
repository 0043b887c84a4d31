package secretstore

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Store is a small encrypted-at-rest KV wrapper (Badger) holding the
// brokerage credentials and the device token. Encryption is provided by
// Badger options (value log + key registry), not by this wrapper.
type Store struct {
	db *badger.DB
}

// Well-known keys.
const (
	KeyUsername    = "robinhood/username"
	KeyPassword    = "robinhood/password"
	KeyDeviceToken = "robinhood/device_token"
)

type OpenOptions struct {
	Path          string
	EncryptionKey []byte // 32 bytes; if nil, DB is opened without encryption (not recommended)
	ReadOnly      bool
}

func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if len(opts.EncryptionKey) > 0 {
		// Badger requires index cache for encrypted workloads
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20) // 100MB
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) GetString(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return "", false, errors.New("secretstore: key is empty")
	}
	var out string
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return out, found, nil
}

func (s *Store) SetString(key string, val string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return errors.New("secretstore: key is empty")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, []byte(val))
	})
}

func (s *Store) Delete(key string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return errors.New("secretstore: key is empty")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}

// Credentials is the stored login pair.
type Credentials struct {
	Username string
	Password string
}

// SaveCredentials stores the login pair under the well-known keys.
func (s *Store) SaveCredentials(c Credentials) error {
	if err := s.SetString(KeyUsername, c.Username); err != nil {
		return err
	}
	return s.SetString(KeyPassword, c.Password)
}

// LoadCredentials returns the stored login pair. Missing either half reports
// found=false.
func (s *Store) LoadCredentials() (Credentials, bool, error) {
	user, ok, err := s.GetString(KeyUsername)
	if err != nil || !ok {
		return Credentials{}, false, err
	}
	pass, ok, err := s.GetString(KeyPassword)
	if err != nil || !ok {
		return Credentials{}, false, err
	}
	return Credentials{Username: user, Password: pass}, true, nil
}

// DeviceToken returns the persisted device token, if any.
func (s *Store) DeviceToken() (string, bool, error) {
	return s.GetString(KeyDeviceToken)
}

// SetDeviceToken persists the device token so re-logins present the same
// device identity and keep the MFA trust the venue granted it.
func (s *Store) SetDeviceToken(token string) error {
	return s.SetString(KeyDeviceToken, token)
}

// ParseKey expects 32 bytes (base64 or hex). Returns nil if input is empty.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	rawHex := strings.TrimPrefix(raw, "0x")
	if b, err := hex.DecodeString(rawHex); err == nil {
		if len(b) == 32 {
			return b, nil
		}
		return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
