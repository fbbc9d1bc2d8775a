package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rakhulsr/venue-admin/app/utils/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
	DefaultBackoff = time.Second
)

// TokenSource yields the bearer token for a request. ok is false when no
// token is stored; the request is then sent without Authorization.
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool)
}

// API is what repositories need from the fetcher.
type API interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}

type Request struct {
	Method string
	// Path is relative to the base URL unless it is an absolute URL.
	Path  string
	Query url.Values
	// JSON is marshalled as the request body when set.
	JSON any
	// Body is sent as is with ContentType. It is kept as bytes so every
	// retry attempt can resend it.
	Body        []byte
	ContentType string
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Sleep waits between attempts. Tests replace it to avoid real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

type Fetcher struct {
	baseURL string
	timeout time.Duration
	retries int
	backoff time.Duration
	client  *http.Client
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	tokens  TokenSource
}

func NewFetcher(opts Options) *Fetcher {
	f := &Fetcher{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		retries: opts.Retries,
		backoff: opts.Backoff,
		client:  opts.HTTPClient,
		logger:  logger.OrNop(opts.Logger),
		sleep:   opts.Sleep,
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	if f.retries < 0 {
		f.retries = 0
	}
	if f.backoff < 0 {
		f.backoff = 0
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	if f.sleep == nil {
		f.sleep = sleepContext
	}
	return f
}

// WithAuth returns a copy of the fetcher that authenticates with ts.
func (f *Fetcher) WithAuth(ts TokenSource) *Fetcher {
	cp := *f
	cp.tokens = ts
	return &cp
}

func (f *Fetcher) BaseURL() string { return f.baseURL }

// Do performs the request with bounded retries. Only timeouts and network
// failures are retried; any response from the server is final.
func (f *Fetcher) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	token := ""
	if f.tokens != nil {
		if t, ok := f.tokens.Token(ctx); ok {
			token = t
		}
	}

	target, err := f.resolve(req)
	if err != nil {
		return nil, &APIError{Kind: KindOther, Err: err}
	}

	requestID := uuid.New().String()
	attempts := f.retries + 1

	for attempt := 1; ; attempt++ {
		payload, err := f.once(ctx, req.Method, target, body, contentType, token, requestID)
		if err == nil {
			return payload, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Retryable() || attempt >= attempts || ctx.Err() != nil {
			f.logger.Debug("Fetcher.Do: request failed",
				zap.String("method", req.Method),
				zap.String("url", target),
				zap.String("request_id", requestID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return nil, err
		}

		f.logger.Warn("Fetcher.Do: retrying after network failure",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.String("request_id", requestID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", f.backoff),
			zap.Error(err),
		)

		if sleepErr := f.sleep(ctx, f.backoff); sleepErr != nil {
			return nil, &APIError{Kind: KindOther, Err: sleepErr}
		}
	}
}

func (f *Fetcher) once(ctx context.Context, method, target string, body []byte, contentType, token, requestID string) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, method, target, reader)
	if err != nil {
		return nil, &APIError{Kind: KindOther, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(respBody) {
		return nil, &APIError{Kind: KindOther, Status: resp.StatusCode, Body: string(respBody), Err: errors.New("response is not valid JSON")}
	}
	return json.RawMessage(respBody), nil
}

func (f *Fetcher) resolve(req Request) (string, error) {
	raw := req.Path
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = f.baseURL + "/" + strings.TrimLeft(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", raw, err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(req Request) ([]byte, string, error) {
	if req.JSON != nil {
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", &APIError{Kind: KindOther, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		return b, "application/json", nil
	}
	return req.Body, req.ContentType, nil
}

// classifyTransport maps a failed round trip. A cancelled parent context is
// not a network failure and is never retried.
func classifyTransport(parent context.Context, err error) *APIError {
	if parent.Err() != nil {
		return &APIError{Kind: KindOther, Err: parent.Err()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Kind: KindTimeout, Err: err}
	}
	return &APIError{Kind: KindNetworkUnreachable, Err: err}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
