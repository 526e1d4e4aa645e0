package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewManager(rdb, time.Hour), mr
}

func TestManager_CreateAnonymous(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	rec, err := m.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.Authenticated)
	assert.Empty(t, rec.UserID)
}

func TestManager_LoginRegeneratesSessionID(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	anonSID, err := m.Create(ctx)
	require.NoError(t, err)

	authSID, err := m.Login(ctx, anonSID, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, anonSID, authSID, "login must issue a fresh session id")

	// The pre-login session is gone; a stolen anonymous id is worthless.
	old, err := m.Get(ctx, anonSID)
	require.NoError(t, err)
	assert.Nil(t, old)

	rec, err := m.Get(ctx, authSID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Authenticated)
	assert.Equal(t, "user-1", rec.UserID)
}

func TestManager_LoginWithoutPriorSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Login(ctx, "", "user-2")
	require.NoError(t, err)

	rec, err := m.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "user-2", rec.UserID)
}

func TestManager_LogoutDestroysAndIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Login(ctx, "", "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx, sid))
	rec, err := m.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Logging out again, or with an unknown id, is fine.
	assert.NoError(t, m.Logout(ctx, sid))
	assert.NoError(t, m.Logout(ctx, "never-existed"))
	assert.NoError(t, m.Logout(ctx, ""))
}

func TestManager_ExpiredSessionReadsAsAbsent(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Login(ctx, "", "user-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	rec, err := m.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestManager_GetUnknownSID(t *testing.T) {
	m, _ := newTestManager(t)

	rec, err := m.Get(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = m.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
