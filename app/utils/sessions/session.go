package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// sessionCookieName lives until the browser closes.
	sessionCookieName = "venue-admin-session"
	// rememberCookieName survives restarts when the admin ticked "remember me".
	rememberCookieName = "venue-admin-remember"

	screenKey = "screen"
)

type Manager struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

func NewManager(secure bool, logger *zap.Logger, keyPairs ...[]byte) *Manager {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// SessionStorage is the browser-session scoped store for one request.
func (m *Manager) SessionStorage(w http.ResponseWriter, r *http.Request) *RequestStorage {
	return &RequestStorage{manager: m, w: w, r: r, name: sessionCookieName, maxAge: 0}
}

// RememberStorage is the long lived store for one request.
func (m *Manager) RememberStorage(w http.ResponseWriter, r *http.Request) *RequestStorage {
	return &RequestStorage{manager: m, w: w, r: r, name: rememberCookieName, maxAge: m.store.Options.MaxAge}
}

// AuthContext checks the session store before the remember store.
func (m *Manager) AuthContext(w http.ResponseWriter, r *http.Request) *AuthContext {
	return NewAuthContext(m.SessionStorage(w, r), m.RememberStorage(w, r))
}

// ScreenKey identifies this browser's screen state. It is created on first use
// and kept in the session cookie.
func (m *Manager) ScreenKey(w http.ResponseWriter, r *http.Request) string {
	s := m.SessionStorage(w, r)
	if key, ok := s.Get(screenKey); ok {
		return key
	}
	key := uuid.New().String()
	if err := s.Set(screenKey, key); err != nil {
		m.logger.Warn("Manager.ScreenKey: failed to persist screen key", zap.Error(err))
	}
	return key
}

// Login stores the token and profile, in the remember store when asked to.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, token, profileJSON string, remember bool) error {
	target := m.SessionStorage(w, r)
	if remember {
		target = m.RememberStorage(w, r)
	}
	return target.SetValues(map[string]string{TokenKey: token, ProfileKey: profileJSON})
}

type RequestStorage struct {
	manager *Manager
	w       http.ResponseWriter
	r       *http.Request
	name    string
	maxAge  int
}

func (s *RequestStorage) session() (*sessions.Session, error) {
	session, err := s.manager.store.Get(s.r, s.name)
	if err != nil {
		// a cookie signed with rotated keys still yields a fresh session
		s.manager.logger.Debug("RequestStorage: error decoding session", zap.String("cookie", s.name), zap.Error(err))
	}
	if session == nil {
		session = sessions.NewSession(s.manager.store, s.name)
	}
	opts := *s.manager.store.Options
	opts.MaxAge = s.maxAge
	session.Options = &opts
	return session, nil
}

func (s *RequestStorage) Get(key string) (string, bool) {
	session, err := s.session()
	if err != nil {
		return "", false
	}
	v, ok := session.Values[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *RequestStorage) Set(key, value string) error {
	return s.SetValues(map[string]string{key: value})
}

// SetValues writes all values with a single cookie save.
func (s *RequestStorage) SetValues(values map[string]string) error {
	session, err := s.session()
	if err != nil {
		return err
	}
	for k, v := range values {
		session.Values[k] = v
	}
	return session.Save(s.r, s.w)
}

func (s *RequestStorage) Clear() error {
	session, err := s.session()
	if err != nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(s.r, s.w)
}
