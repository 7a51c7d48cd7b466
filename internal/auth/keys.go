// Package auth resolves presented API keys to known users. Keys are a
// static list in the "api-keys" document; there is no session or token
// machinery on top.
package auth

import (
	"kasir-pos/internal/errs"
	"kasir-pos/internal/models"
	"kasir-pos/internal/store"
)

// DefaultKey is seeded on first boot so a fresh install is reachable.
// Replace it before exposing the server to anything.
const DefaultKey = "DEFAULT_KEY"

type Gate struct {
	store store.Store
}

func NewGate(s store.Store) *Gate {
	return &Gate{store: s}
}

// Resolve maps a presented key to its user. Unknown keys come back as
// ErrAuth; the caller never learns whether the key was close.
func (g *Gate) Resolve(key string) (string, error) {
	var list models.KeyList
	err := g.store.Read(store.KeyAPIKeys, &list)
	if err == store.ErrNotFound {
		return "", errs.ErrAuth
	}
	if err != nil {
		return "", &errs.StorageError{Key: store.KeyAPIKeys, Err: err}
	}
	for _, k := range list.Keys {
		if k.Key == key {
			return k.User, nil
		}
	}
	return "", errs.ErrAuth
}

// Seed writes the default key list if none exists yet.
func (g *Gate) Seed() error {
	var list models.KeyList
	err := g.store.Read(store.KeyAPIKeys, &list)
	if err == nil {
		return nil
	}
	if err != store.ErrNotFound {
		return &errs.StorageError{Key: store.KeyAPIKeys, Err: err}
	}
	list = models.KeyList{
		SchemaVersion: models.CurrentSchemaVersion,
		Keys:          []models.APIKey{{Key: DefaultKey, User: "admin"}},
	}
	if err := g.store.Write(store.KeyAPIKeys, list); err != nil {
		return &errs.StorageError{Key: store.KeyAPIKeys, Err: err}
	}
	return nil
}
