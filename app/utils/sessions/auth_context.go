package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are read from the bearer token without verifying it; the
// backend remains the authority, this only avoids calls that would 401.
type TokenClaims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// AuthContext resolves the token and profile from the configured stores, the
// first store holding a token wins.
type AuthContext struct {
	stores []Storage
	now    func() time.Time
}

func NewAuthContext(stores ...Storage) *AuthContext {
	return &AuthContext{stores: stores, now: time.Now}
}

// WithClock is used by tests.
func (a *AuthContext) WithClock(now func() time.Time) *AuthContext {
	a.now = now
	return a
}

func (a *AuthContext) active() (Storage, string, bool) {
	for _, s := range a.stores {
		if s == nil {
			continue
		}
		if token, ok := s.Get(TokenKey); ok {
			return s, token, true
		}
	}
	return nil, "", false
}

// Token implements client.TokenSource. Expired tokens are not offered.
func (a *AuthContext) Token(_ context.Context) (string, bool) {
	_, token, ok := a.active()
	if !ok {
		return "", false
	}
	if claims, ok := parseClaims(token); ok && a.expired(claims) {
		return "", false
	}
	return token, true
}

func (a *AuthContext) Claims() (TokenClaims, bool) {
	_, token, ok := a.active()
	if !ok {
		return TokenClaims{}, false
	}
	return parseClaims(token)
}

// Profile is the stored user blob, falling back to what the token claims.
func (a *AuthContext) Profile() (models.UserProfile, bool) {
	store, token, ok := a.active()
	if !ok {
		return models.UserProfile{}, false
	}
	if raw, ok := store.Get(ProfileKey); ok {
		var profile models.UserProfile
		if err := json.Unmarshal([]byte(raw), &profile); err == nil && (profile.ID != "" || profile.Role != "") {
			return profile, true
		}
	}
	if claims, ok := parseClaims(token); ok {
		return models.UserProfile{ID: claims.UserID, Role: claims.Role}, true
	}
	return models.UserProfile{}, false
}

func (a *AuthContext) UserID() string {
	profile, _ := a.Profile()
	return profile.ID
}

// Check fails with Unauthenticated when there is no usable token.
func (a *AuthContext) Check() error {
	_, token, ok := a.active()
	if !ok {
		return client.NewUnauthenticatedError()
	}
	if claims, ok := parseClaims(token); ok && a.expired(claims) {
		return &client.APIError{Kind: client.KindUnauthorized, Message: "Sesi Anda telah berakhir. Silakan login kembali."}
	}
	return nil
}

// RequireAdmin adds the role check on top of Check.
func (a *AuthContext) RequireAdmin() error {
	if err := a.Check(); err != nil {
		return err
	}
	profile, ok := a.Profile()
	if !ok || !profile.IsAdmin() {
		return &client.APIError{Kind: client.KindForbidden}
	}
	return nil
}

// Clear drops the session indicator from every store.
func (a *AuthContext) Clear() error {
	var firstErr error
	for _, s := range a.stores {
		if s == nil {
			continue
		}
		if err := s.Clear(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *AuthContext) expired(c TokenClaims) bool {
	return !c.ExpiresAt.IsZero() && !a.now().Before(c.ExpiresAt)
}

func parseClaims(token string) (TokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, false
	}

	out := TokenClaims{}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	for _, key := range []string{"id", "_id", "userId", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			out.UserID = v
			break
		}
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	return out, true
}
