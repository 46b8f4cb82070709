package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	manager, store := NewMockManager()

	err := manager.Store(&Credential{Label: "work", AccessKey: "abcd1234efgh5678"})
	require.NoError(t, err)
	assert.True(t, store.Exists("work"))

	cred, err := manager.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "abcd1234efgh5678", cred.AccessKey)
	assert.False(t, cred.LastModified.IsZero())
}

func TestManagerStoreDefaultsLabel(t *testing.T) {
	manager, store := NewMockManager()

	require.NoError(t, manager.Store(&Credential{AccessKey: "abcd1234efgh5678"}))
	assert.True(t, store.Exists(DefaultLabel))
}

func TestManagerStoreRejectsEmptyKey(t *testing.T) {
	manager, _ := NewMockManager()
	assert.Error(t, manager.Store(&Credential{Label: "work"}))
	assert.Error(t, manager.Store(nil))
}

func TestManagerFallsThroughFailingStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = ErrStoreUnavailable
	broken.RetrieveError = ErrStoreUnavailable
	working := NewMockStore()
	manager := NewMockManagerWithStores(broken, working)

	require.NoError(t, manager.Store(&Credential{Label: "work", AccessKey: "abcd1234efgh5678"}))
	assert.False(t, broken.Exists("work"))
	assert.True(t, working.Exists("work"))

	cred, err := manager.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "abcd1234efgh5678", cred.AccessKey)
}

func TestManagerRetrieveMissing(t *testing.T) {
	manager, _ := NewMockManager()
	_, err := manager.Retrieve("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential not found")
}

func TestManagerDelete(t *testing.T) {
	manager, store := NewMockManager()
	require.NoError(t, manager.Store(&Credential{Label: "work", AccessKey: "abcd1234efgh5678"}))

	require.NoError(t, manager.Delete("work"))
	assert.False(t, store.Exists("work"))

	assert.Error(t, manager.Delete("work"))
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()
	require.NoError(t, older.Store(&Credential{
		Label: "work", AccessKey: "old-key-old-key", LastModified: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, newer.Store(&Credential{
		Label: "work", AccessKey: "new-key-new-key", LastModified: time.Now(),
	}))

	manager := NewMockManagerWithStores(older, newer)
	creds, err := manager.List()
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "new-key-new-key", creds[0].AccessKey)
}

func TestManagerRetrieveDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("IGSTATS_ACCESS_KEY", "env-key-env-key")

	stored := NewMockStore()
	require.NoError(t, stored.Store(&Credential{Label: DefaultLabel, AccessKey: "stored-key-here"}))
	manager := NewMockManagerWithStores(stored, NewEnvironmentStore())

	cred, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "env-key-env-key", cred.AccessKey)
}

func TestManagerRetrieveDefaultFallsBackToStored(t *testing.T) {
	t.Setenv("IGSTATS_ACCESS_KEY", "")
	t.Setenv("HIKERAPI_TOKEN", "")
	t.Setenv("HIKERAPI_KEY", "")

	stored := NewMockStore()
	require.NoError(t, stored.Store(&Credential{Label: DefaultLabel, AccessKey: "stored-key-here"}))
	manager := NewMockManagerWithStores(stored, NewEnvironmentStore())

	cred, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "stored-key-here", cred.AccessKey)
}

func TestEnvironmentStoreReadOnly(t *testing.T) {
	t.Setenv("IGSTATS_ACCESS_KEY", "env-key-env-key")
	store := NewEnvironmentStore()

	assert.ErrorIs(t, store.Store(&Credential{Label: "x", AccessKey: "y"}), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("x"), ErrStoreUnavailable)

	cred, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLabel, cred.Label)
	assert.Equal(t, "env-key-env-key", cred.AccessKey)
	assert.True(t, store.Exists("anything"))
}

func TestEnvironmentStoreAliasOrder(t *testing.T) {
	t.Setenv("IGSTATS_ACCESS_KEY", "")
	t.Setenv("HIKERAPI_TOKEN", "token-alias-key")
	t.Setenv("HIKERAPI_KEY", "lowest-priority")

	cred, err := NewEnvironmentStore().Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "token-alias-key", cred.AccessKey)
	assert.Equal(t, "work", cred.Label)
}

func TestEncryptedFileStoreRoundtrip(t *testing.T) {
	t.Setenv("IGSTATS_PASSPHRASE", "test-passphrase-for-roundtrip")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	cred := &Credential{
		Label:        "work",
		AccessKey:    "abcd1234efgh5678",
		BaseURL:      "https://proxy.example.com",
		LastModified: time.Now(),
	}
	require.NoError(t, store.Store(cred))

	// A fresh store instance with the same passphrase reads it back.
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	got, err := reopened.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "abcd1234efgh5678", got.AccessKey)
	assert.Equal(t, "https://proxy.example.com", got.BaseURL)

	creds, err := reopened.List()
	require.NoError(t, err)
	assert.Len(t, creds, 1)
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv("IGSTATS_PASSPHRASE", "correct-passphrase")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Label: "work", AccessKey: "abcd1234efgh5678"}))

	t.Setenv("IGSTATS_PASSPHRASE", "wrong-passphrase")
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	_, err = reopened.Retrieve("work")
	assert.Error(t, err)
}

func TestEncryptedFileStoreDeleteRemovesFile(t *testing.T) {
	t.Setenv("IGSTATS_PASSPHRASE", "test-passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Label: "only", AccessKey: "abcd1234efgh5678"}))
	require.True(t, store.Exists("only"))

	require.NoError(t, store.Delete("only"))
	assert.False(t, store.Exists("only"))
	assert.ErrorIs(t, store.Delete("only"), ErrCredentialNotFound)
}

func TestSanitize(t *testing.T) {
	cred := &Credential{Label: "work", AccessKey: "abcd1234efgh5678", BaseURL: "https://x"}
	masked := Sanitize(cred)

	assert.Equal(t, "abcd...5678", masked.AccessKey)
	assert.Equal(t, "work", masked.Label)
	assert.Equal(t, "abcd1234efgh5678", cred.AccessKey, "original untouched")

	short := Sanitize(&Credential{AccessKey: "tiny"})
	assert.Equal(t, "********", short.AccessKey)

	assert.Nil(t, Sanitize(nil))
}
