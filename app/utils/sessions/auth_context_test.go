package sessions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func TestAuthContextWithoutToken(t *testing.T) {
	auth := NewAuthContext(NewMemoryStorage(nil))

	_, ok := auth.Token(context.Background())
	assert.False(t, ok)
	assert.Equal(t, client.KindUnauthenticated, client.KindOf(auth.Check()))
	assert.Equal(t, client.KindUnauthenticated, client.KindOf(auth.RequireAdmin()))
}

func TestAuthContextExpiredToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"id": "u1", "role": "admin", "exp": fixedNow.Add(-time.Minute).Unix()})
	auth := NewAuthContext(NewMemoryStorage(map[string]string{TokenKey: token})).WithClock(func() time.Time { return fixedNow })

	_, ok := auth.Token(context.Background())
	assert.False(t, ok, "expired tokens are not sent")
	assert.Equal(t, client.KindUnauthorized, client.KindOf(auth.Check()))
}

func TestAuthContextAdminFromClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"id": "u1", "role": "admin", "exp": fixedNow.Add(time.Hour).Unix()})
	auth := NewAuthContext(NewMemoryStorage(map[string]string{TokenKey: token})).WithClock(func() time.Time { return fixedNow })

	got, ok := auth.Token(context.Background())
	assert.True(t, ok)
	assert.Equal(t, token, got)
	assert.NoError(t, auth.RequireAdmin())
	assert.Equal(t, "u1", auth.UserID())

	claims, ok := auth.Claims()
	require.True(t, ok)
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestAuthContextStoredProfileWins(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"id": "u1", "role": "admin"})
	profile, err := json.Marshal(map[string]string{"_id": "u1", "name": "Sari", "role": "vendor"})
	require.NoError(t, err)

	auth := NewAuthContext(NewMemoryStorage(map[string]string{TokenKey: token, ProfileKey: string(profile)}))

	p, ok := auth.Profile()
	require.True(t, ok)
	assert.Equal(t, "Sari", p.Name)
	assert.Equal(t, client.KindForbidden, client.KindOf(auth.RequireAdmin()))
}

func TestAuthContextOpaqueToken(t *testing.T) {
	auth := NewAuthContext(NewMemoryStorage(map[string]string{TokenKey: "opaque-token"}))

	got, ok := auth.Token(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "opaque-token", got)
	assert.NoError(t, auth.Check())
	assert.Equal(t, client.KindForbidden, client.KindOf(auth.RequireAdmin()), "no profile means no admin role")
}

func TestAuthContextStoreOrderAndClear(t *testing.T) {
	session := NewMemoryStorage(nil)
	remember := NewMemoryStorage(map[string]string{TokenKey: "remembered"})
	auth := NewAuthContext(session, remember)

	got, _ := auth.Token(context.Background())
	assert.Equal(t, "remembered", got)

	require.NoError(t, session.Set(TokenKey, "fresh"))
	got, _ = auth.Token(context.Background())
	assert.Equal(t, "fresh", got)

	require.NoError(t, auth.Clear())
	_, ok := auth.Token(context.Background())
	assert.False(t, ok)
	_, ok = remember.Get(TokenKey)
	assert.False(t, ok)
}
