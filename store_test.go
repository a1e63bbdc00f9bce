package authclient_test

import (
	"testing"

	authclient "github.com/goliatone/go-authclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	store := authclient.NewMemoryStore()

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "", token)

	require.NoError(t, store.Set("abc"))
	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear())
	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "", token)

	// clearing an empty store is a no-op
	require.NoError(t, store.Clear())
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store := authclient.NewKeyringStore("go-authclient-test", "token")

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "", token)

	require.NoError(t, store.Set("xyz"))
	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "", token)
}
