package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const credentialsFileName = "credentials.json"

// Credentials stores the local login token.
type Credentials struct {
	ServerURL string `json:"server_url"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	IssuedAt  int64  `json:"issued_at,omitempty"`
}

func credentialsPath(configDir string) string {
	return filepath.Join(configDir, credentialsFileName)
}

// LoadCredentials reads stored credentials if present.
func LoadCredentials(configDir string) (*Credentials, error) {
	data, err := os.ReadFile(credentialsPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// SaveCredentials writes credentials with a fresh issue timestamp.
func SaveCredentials(configDir string, creds Credentials) error {
	if creds.IssuedAt == 0 {
		creds.IssuedAt = time.Now().Unix()
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(credentialsPath(configDir), data, 0o600)
}
