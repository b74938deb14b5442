package intake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakeflow/intakeflow/types"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, ok, err := store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	session, err := NewSession(emailSchema(), types.ModeSpeed)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, session))

	got, ok, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.ID, got.ID)

	require.NoError(t, store.Remove(ctx))
	_, ok, err = store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessionStoreKeysAreIsolated(t *testing.T) {
	store := NewMemorySessionStore()
	alice := WithSessionKey(context.Background(), "alice")
	bob := WithSessionKey(context.Background(), "bob")

	sessionA, err := NewSession(emailSchema(), types.ModeSpeed)
	require.NoError(t, err)
	require.NoError(t, store.Write(alice, sessionA))

	_, ok, err := store.Read(bob)
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := store.Read(alice)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sessionA.ID, got.ID)
}

func TestSessionKeyFromContext(t *testing.T) {
	_, ok := SessionKeyFromContext(context.Background())
	assert.False(t, ok)

	key, ok := SessionKeyFromContext(WithSessionKey(context.Background(), "conv-42"))
	require.True(t, ok)
	assert.Equal(t, "conv-42", key)
}
