// Package session resolves the signed-in user and derives per-user storage keys.
package session

import (
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "fleetdash"
	currentUserKey = "current-user"
	keySuffix      = "-filters"
)

// Service stores the signed-in user id in the OS keyring.
type Service struct{}

// NewService creates a new session service.
func NewService() *Service {
	return &Service{}
}

// SetCurrentUser records the signed-in user.
func (s *Service) SetCurrentUser(userID string) error {
	if userID == "" {
		return s.ClearCurrentUser()
	}
	return keyring.Set(keyringService, currentUserKey, userID)
}

// CurrentUser returns the signed-in user, "" if nobody is signed in.
func (s *Service) CurrentUser() (string, error) {
	userID, err := keyring.Get(keyringService, currentUserKey)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	return userID, err
}

// ClearCurrentUser forgets the signed-in user.
func (s *Service) ClearCurrentUser() error {
	err := keyring.Delete(keyringService, currentUserKey)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

// StorageKey returns the storage key of a domain's filters for a user.
// userID may be a string or a number.
func StorageKey(userID any, domain string) string {
	return fmt.Sprintf("%v:%s%s", userID, domain, keySuffix)
}

// UserPrefix returns the prefix shared by all of a user's storage keys.
func UserPrefix(userID any) string {
	return fmt.Sprintf("%v:", userID)
}

// ParseStorageKey splits a storage key into user id and domain.
func ParseStorageKey(key string) (userID, domain string, ok bool) {
	i := strings.LastIndex(key, ":")
	if i <= 0 || !strings.HasSuffix(key, keySuffix) {
		return "", "", false
	}
	domain = strings.TrimSuffix(key[i+1:], keySuffix)
	if domain == "" {
		return "", "", false
	}
	return key[:i], domain, true
}
