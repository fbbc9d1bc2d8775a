package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(_ context.Context) (string, bool) {
	return string(s), s != ""
}

func noSleep(calls *int32) func(context.Context, time.Duration) error {
	return func(_ context.Context, _ time.Duration) error {
		atomic.AddInt32(calls, 1)
		return nil
	}
}

func TestFetcherSendsBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL}).WithAuth(staticToken("abc"))
	payload, err := f.Do(context.Background(), Request{Method: http.MethodGet, Path: "/categories"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(payload))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestFetcherWithoutTokenOmitsAuthorization(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL}).WithAuth(staticToken(""))
	payload, err := f.Do(context.Background(), Request{Method: http.MethodDelete, Path: "venues/1"})

	require.NoError(t, err)
	assert.Equal(t, "null", string(payload))
	assert.False(t, hadAuth)
}

func TestFetcherJoinsBaseURLAndQuery(t *testing.T) {
	var gotPath, gotZone string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotZone = r.URL.Query().Get("zone")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL + "/api/"})
	_, err := f.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/venues",
		Query:  map[string][]string{"zone": {"z1"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "/api/venues", gotPath)
	assert.Equal(t, "z1", gotZone)
}

func TestFetcherClassifiesStatus(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		kind    Kind
		message string
	}{
		{http.StatusUnauthorized, `{"message":"jwt expired"}`, KindUnauthorized, "jwt expired"},
		{http.StatusForbidden, `{}`, KindForbidden, genericMessage(KindForbidden)},
		{http.StatusNotFound, `{"error":"Category not found"}`, KindNotFound, "Category not found"},
		{http.StatusInternalServerError, `oops`, KindServerError, genericMessage(KindServerError)},
		{http.StatusBadRequest, `{"error":{"message":"title required"}}`, KindOther, "title required"},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			var sleeps int32
			f := NewFetcher(Options{BaseURL: srv.URL, Retries: 3, Sleep: noSleep(&sleeps)})
			_, err := f.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})

			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))
			assert.Equal(t, tc.message, UserMessage(err))
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "server responses are never retried")
			assert.Zero(t, atomic.LoadInt32(&sleeps))
		})
	}
}

func TestFetcherRetriesTimeouts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	var sleeps int32
	f := NewFetcher(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Retries: 2, Sleep: noSleep(&sleeps)})
	payload, err := f.Do(context.Background(), Request{Method: http.MethodGet, Path: "/venues"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(payload))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&sleeps))
}

func TestFetcherGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	var sleeps int32
	f := NewFetcher(Options{BaseURL: target, Retries: 2, Sleep: noSleep(&sleeps)})
	_, err := f.Do(context.Background(), Request{Method: http.MethodGet, Path: "/zones"})

	require.Error(t, err)
	assert.Equal(t, KindNetworkUnreachable, KindOf(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&sleeps))
}

func TestFetcherResendsBodyOnRetry(t *testing.T) {
	var calls int32
	var lastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastBody = string(b)
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var sleeps int32
	f := NewFetcher(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Retries: 1, Sleep: noSleep(&sleeps)})
	_, err := f.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/login", JSON: map[string]string{"email": "a@b.c"}})

	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c"}`, lastBody)
}

func TestFetcherCancelledContextIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sleeps int32
	f := NewFetcher(Options{BaseURL: srv.URL, Retries: 3, Sleep: noSleep(&sleeps)})
	_, err := f.Do(ctx, Request{Method: http.MethodGet, Path: "/"})

	require.Error(t, err)
	assert.Equal(t, KindOther, KindOf(err))
	assert.Zero(t, atomic.LoadInt32(&sleeps))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, genericMessage(KindOther), UserMessage(io.EOF))
	assert.Equal(t, "judul wajib", UserMessage(NewValidationError("judul wajib")))
	assert.True(t, IsAuthFailure(NewUnauthenticatedError()))
	assert.False(t, IsAuthFailure(&APIError{Kind: KindForbidden}))
}

type flakyTransport struct {
	failures int32
	calls    int32
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if atomic.AddInt32(&f.calls, 1) <= f.failures {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`[]`)),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}

func TestFetcherRetryBudget(t *testing.T) {
	cases := []struct {
		name     string
		failures int32
		retries  int
		wantErr  bool
	}{
		{"succeeds on last attempt", 2, 2, false},
		{"succeeds first time", 0, 2, false},
		{"budget exceeded", 3, 2, true},
		{"no retries", 1, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &flakyTransport{failures: tc.failures}
			var sleeps int32
			f := NewFetcher(Options{
				BaseURL:    "http://api.local",
				Retries:    tc.retries,
				HTTPClient: &http.Client{Transport: transport},
				Sleep:      noSleep(&sleeps),
			})

			_, err := f.Do(context.Background(), Request{Method: http.MethodGet, Path: "/modules"})
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindNetworkUnreachable, KindOf(err))
				assert.Equal(t, int32(tc.retries+1), atomic.LoadInt32(&transport.calls))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.failures+1, atomic.LoadInt32(&transport.calls))
		})
	}
}
