package auth

import (
	"os"
	"time"
)

// Environment variables checked for an access key, in order.
var envAccessKeyVars = []string{"IGSTATS_ACCESS_KEY", "HIKERAPI_TOKEN", "HIKERAPI_KEY"}

// EnvironmentStore implements CredentialStore using environment
// variables. Read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables.
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets the access key from the environment.
func (e *EnvironmentStore) Retrieve(label string) (*Credential, error) {
	accessKey := envAccessKey()
	if accessKey == "" {
		return nil, ErrCredentialNotFound
	}

	if label == "" {
		label = DefaultLabel
	}

	return &Credential{
		Label:        label,
		AccessKey:    accessKey,
		BaseURL:      os.Getenv("IGSTATS_API_BASE_URL"),
		LastModified: time.Now(),
	}, nil
}

// List returns a single credential if the environment is set.
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables.
func (e *EnvironmentStore) Delete(label string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment access key is set.
func (e *EnvironmentStore) Exists(label string) bool {
	return envAccessKey() != ""
}

func envAccessKey() string {
	for _, name := range envAccessKeyVars {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
