// Package identity persists the anonymous user identifier and the last-used
// author nickname across sessions. The identifier is a dedup hint for the
// backend's per-user like tracking, not an authentication credential.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Identity struct {
	Version        int    `json:"version"`
	UserIdentifier string `json:"user_identifier"`
	AuthorName     string `json:"author_name,omitempty"`
}

func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".showcase", "identity.json"), nil
}

func Load() (*Identity, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Identity{Version: 1}, nil
		}
		return nil, err
	}
	var id Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return nil, fmt.Errorf("parse identity: %w", err)
	}
	if id.Version == 0 {
		id.Version = 1
	}
	return &id, nil
}

func Save(id *Identity) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, append(b, '\n'), 0o600)
}

// UserIdentifier returns the stored identifier, generating and persisting one
// on first use. Subsequent calls always return the same value.
func UserIdentifier() (string, error) {
	id, err := Load()
	if err != nil {
		return "", err
	}
	if id.UserIdentifier != "" {
		return id.UserIdentifier, nil
	}
	id.UserIdentifier = generateIdentifier()
	if err := Save(id); err != nil {
		return "", err
	}
	return id.UserIdentifier, nil
}

// AuthorName returns the last nickname used for posting, or "".
func AuthorName() string {
	id, err := Load()
	if err != nil {
		return ""
	}
	return id.AuthorName
}

// SaveAuthorName remembers the nickname for prefilling future compose forms.
func SaveAuthorName(name string) error {
	id, err := Load()
	if err != nil {
		return err
	}
	id.AuthorName = name
	return Save(id)
}

func generateIdentifier() string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return "user_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + hex.EncodeToString(suffix)
}
