package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(false, nil, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
}

// carryCookies keeps the last cookie of each name, as a browser would.
func carryCookies(from *httptest.ResponseRecorder, to *http.Request) {
	latest := map[string]*http.Cookie{}
	var order []string
	for _, c := range from.Result().Cookies() {
		if _, seen := latest[c.Name]; !seen {
			order = append(order, c.Name)
		}
		latest[c.Name] = c
	}
	for _, name := range order {
		to.AddCookie(latest[name])
	}
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestManagerLoginRoundTrip(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.Login(rec, req, "tok-1", `{"id":"u1","role":"admin"}`, false))

	session := cookieByName(rec, sessionCookieName)
	require.NotNil(t, session)
	assert.Len(t, rec.Result().Header.Values("Set-Cookie"), 1, "token and profile are saved together")
	assert.Zero(t, session.MaxAge, "browser session cookie")
	assert.Nil(t, cookieByName(rec, rememberCookieName))

	next := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	carryCookies(rec, next)
	auth := m.AuthContext(httptest.NewRecorder(), next)

	token, ok := auth.Token(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)
	assert.NoError(t, auth.RequireAdmin())
}

func TestManagerRememberMe(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "tok-2", `{"id":"u1","role":"admin"}`, true))

	remember := cookieByName(rec, rememberCookieName)
	require.NotNil(t, remember)
	assert.Greater(t, remember.MaxAge, 0)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(rec, next)
	assert.Equal(t, "u1", m.AuthContext(httptest.NewRecorder(), next).UserID())
}

func TestManagerScreenKeyIsStable(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	first := m.ScreenKey(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, first)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(rec, next)
	assert.Equal(t, first, m.ScreenKey(httptest.NewRecorder(), next))
}

func TestManagerIgnoresForeignCookie(t *testing.T) {
	m := newTestManager()
	other := newTestManager()

	rec := httptest.NewRecorder()
	require.NoError(t, other.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "tok", `{}`, false))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(rec, next)
	_, ok := m.AuthContext(httptest.NewRecorder(), next).Token(context.Background())
	assert.False(t, ok)
}
