package ultradns

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	tokenPath       = "/v1/authorization/token"
	instrumentation = "github.com/jfk9w-go/libdns-ultradns"
)

// reservedHeaders are managed by the transport and cannot be overridden.
var reservedHeaders = []string{"Authorization", "Content-Type", "Accept"}

// Transport performs authenticated calls against the API.
// It renews an expired access token with the refresh token and retries the request once.
// A Transport is safe for concurrent use.
type Transport struct {
	baseURL   string
	http      *http.Client
	userAgent string
	log       *zap.Logger
	metrics   *metrics
	tracer    trace.Tracer

	proxy atomic.Pointer[url.URL]

	// refreshMu serializes token endpoint calls. mu is never held across I/O.
	refreshMu sync.Mutex

	mu      sync.RWMutex
	state   State
	token   token
	headers http.Header
}

// NewTransport creates an unauthenticated transport.
// Use Authenticate or SetTokens before issuing requests.
func NewTransport(cfg Config) (*Transport, error) {
	cfg = cfg.withDefaults()

	headers, err := customHeaders(cfg.CustomHeaders)
	if err != nil {
		return nil, err
	}

	tracerProvider := cfg.TracerProvider
	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}

	t := &Transport{
		baseURL:   baseURL(cfg.UseHTTP, cfg.Host),
		userAgent: cfg.UserAgent,
		log:       cfg.Logger,
		metrics:   newMetrics(cfg.Registerer),
		tracer:    tracerProvider.Tracer(instrumentation),
		headers:   headers,
	}

	if err := t.SetProxy(cfg.Proxy); err != nil {
		return nil, err
	}

	t.http = cfg.HTTPClient
	if t.http == nil {
		t.http = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:           t.proxyURL,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec
			},
		}
	}

	return t, nil
}

// State returns the current credential state.
func (t *Transport) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// SetTokens installs a pre-issued access token and an optional refresh token.
func (t *Transport) SetTokens(accessToken, refreshToken string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.token = token{
		access:     accessToken,
		refresh:    refreshToken,
		generation: t.token.generation + 1,
	}

	t.state = StateAuthenticated
}

// Authenticate exchanges the username and password for a token pair.
// It is also the only way out of StateFailed.
func (t *Transport) Authenticate(ctx context.Context, username, password string) error {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	resp, err := t.requestToken(ctx, url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
	})

	if err != nil {
		return err
	}

	t.mu.Lock()
	t.token = t.token.next(resp.AccessToken, resp.RefreshToken)
	t.state = StateAuthenticated
	generation := t.token.generation
	t.mu.Unlock()

	t.log.Info("ultradns.authenticated", zap.Uint64("generation", generation))
	return nil
}

// SetCustomHeaders merges headers into the set sent with every request.
func (t *Transport) SetCustomHeaders(headers map[string]string) error {
	parsed, err := customHeaders(headers)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	maps.Copy(t.headers, parsed)
	return nil
}

// SetProxy replaces the proxy URL. An empty value disables the proxy.
// It has no effect when Config.HTTPClient was provided.
func (t *Transport) SetProxy(proxy string) error {
	var u *url.URL
	if proxy != "" {
		var err error
		u, err = url.Parse(proxy)
		if err != nil {
			return &ValidationError{Field: "proxy", Reason: err.Error()}
		}
	}

	t.proxy.Store(u)
	return nil
}

func (t *Transport) proxyURL(*http.Request) (*url.URL, error) {
	return t.proxy.Load(), nil
}

func (t *Transport) Get(ctx context.Context, path string, query url.Values) (*Result, error) {
	return t.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func (t *Transport) Post(ctx context.Context, path string, body any) (*Result, error) {
	return t.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (t *Transport) Put(ctx context.Context, path string, body any) (*Result, error) {
	return t.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

func (t *Transport) Patch(ctx context.Context, path string, body any) (*Result, error) {
	return t.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (t *Transport) Delete(ctx context.Context, path string) (*Result, error) {
	return t.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (t *Transport) PostMultipart(ctx context.Context, path string, parts ...Part) (*Result, error) {
	return t.Do(ctx, &Request{Method: http.MethodPost, Path: path, Parts: parts})
}

// Do sends the request. An expired access token is refreshed and the request is retried exactly once.
func (t *Transport) Do(ctx context.Context, req *Request) (*Result, error) {
	for retried := false; ; retried = true {
		t.mu.RLock()
		state, token := t.state, t.token
		t.mu.RUnlock()

		switch state {
		case StateUnauthenticated:
			return nil, &AuthError{Err: ErrNotAuthenticated}
		case StateFailed:
			return nil, &AuthError{Err: ErrSessionFailed}
		}

		result, err := t.send(ctx, req, token.access)
		if err == nil {
			return result, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.tokenExpired() {
			return nil, err
		}

		if retried {
			return nil, &AuthError{StatusCode: apiErr.StatusCode, Err: apiErr}
		}

		if token.refresh == "" {
			return nil, &AuthError{StatusCode: apiErr.StatusCode, Err: multierr.Combine(ErrNoRefreshToken, apiErr)}
		}

		if err := t.refresh(ctx, token.generation); err != nil {
			return nil, err
		}
	}
}

// refresh renews the token unless another caller already did so after observed was read.
func (t *Transport) refresh(ctx context.Context, observed uint64) error {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	t.mu.RLock()
	state, current := t.state, t.token
	t.mu.RUnlock()

	if current.generation != observed {
		return nil
	}

	if state == StateFailed {
		return &AuthError{Err: ErrSessionFailed}
	}

	resp, err := t.requestToken(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {current.refresh},
	})

	if err != nil {
		t.metrics.refreshed("failure")
		var authErr *AuthError
		if errors.As(err, &authErr) {
			t.mu.Lock()
			if t.token.generation == observed {
				t.state = StateFailed
			}
			t.mu.Unlock()
		} else {
			err = &AuthError{Err: err}
		}

		t.log.Warn("ultradns.refresh_failed", zap.Error(err))
		return err
	}

	t.mu.Lock()
	if t.token.generation == observed {
		t.token = t.token.next(resp.AccessToken, resp.RefreshToken)
	}
	generation := t.token.generation
	t.mu.Unlock()

	t.metrics.refreshed("success")
	t.log.Info("ultradns.token_refreshed", zap.Uint64("generation", generation))
	return nil
}

// requestToken calls the token endpoint. The caller must hold t.refreshMu and not t.mu.
func (t *Transport) requestToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "create token request")
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.metrics.observe(http.MethodPost, "error", time.Since(start))
		return nil, errors.Wrap(err, "request token")
	}

	defer discardBody(resp)
	t.metrics.observe(http.MethodPost, strconv.Itoa(resp.StatusCode), time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read token response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{StatusCode: resp.StatusCode, Err: newAPIError(resp, body)}
	}

	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrap(err, "decode token response")
	}

	if out.AccessToken == "" {
		return nil, &AuthError{StatusCode: resp.StatusCode, Err: errors.New("missing access token")}
	}

	return &out, nil
}

// send performs the round trip, resending once after a 429.
func (t *Transport) send(ctx context.Context, req *Request, accessToken string) (*Result, error) {
	for attempt := 0; ; attempt++ {
		result, err := t.roundTrip(ctx, req, accessToken)

		var apiErr *APIError
		if attempt > 0 || !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
			return result, err
		}

		wait := apiErr.retryAfter()
		t.log.Warn("ultradns.rate_limited",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (t *Transport) roundTrip(ctx context.Context, req *Request, accessToken string) (*Result, error) {
	ctx, span := t.tracer.Start(ctx, "ultradns "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		))
	defer span.End()

	httpReq, err := t.newRequest(ctx, req, accessToken)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := t.http.Do(httpReq)
	if err != nil {
		t.metrics.observe(req.Method, "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.Path)
	}

	defer discardBody(resp)
	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	t.metrics.observe(req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s", req.Method, req.Path)
	}

	t.log.Debug("ultradns.request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", elapsed),
		zap.String("request_id", httpReq.Header.Get("X-Request-Id")))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp, body)
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, apiErr
	}

	return newResult(resp, body), nil
}

func (t *Transport) newRequest(ctx context.Context, req *Request, accessToken string) (*http.Request, error) {
	target, err := req.url(t.baseURL)
	if err != nil {
		return nil, err
	}

	body, contentType, err := req.body()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	t.mu.RLock()
	for key, values := range t.headers {
		httpReq.Header[key] = slices.Clone(values)
	}
	t.mu.RUnlock()

	return httpReq, nil
}

func customHeaders(in map[string]string) (http.Header, error) {
	headers := make(http.Header, len(in))
	for key, value := range in {
		for _, reserved := range reservedHeaders {
			if strings.EqualFold(key, reserved) {
				return nil, &ValidationError{Field: "custom headers", Reason: "cannot include " + reserved}
			}
		}

		headers.Set(key, value)
	}

	return headers, nil
}

func baseURL(useHTTP bool, host string) string {
	if isAbsoluteURL(host) {
		return strings.TrimSuffix(host, "/")
	}

	if useHTTP {
		return "http://" + host
	}

	return "https://" + host
}

func discardBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

var _ Doer = (*Transport)(nil)
