package ultradns

import (
	"context"
	"iter"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultLimit = 100

// Client exposes one method per API operation.
// Methods return the transport result unchanged unless noted otherwise.
type Client struct {
	api       Doer
	transport *Transport
	log       *zap.Logger
	poll      PollConfig
	limit     int
}

// NewClient validates the credentials, builds the transport and authenticates
// with the password when one is given.
func NewClient(ctx context.Context, creds Credentials, cfg Config) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()
	transport, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}

	if creds.useToken() {
		if creds.RefreshToken == "" {
			cfg.Logger.Warn("ultradns.no_refresh_token",
				zap.String("reason", "passing a bearer token with no refresh token means the session will expire after an hour"))
		}

		transport.SetTokens(creds.AccessToken, creds.RefreshToken)
	} else if err := transport.Authenticate(ctx, creds.Username, creds.Password); err != nil {
		return nil, errors.Wrap(err, "authenticate")
	}

	c := newClient(transport, cfg)
	c.transport = transport
	return c, nil
}

func newClient(api Doer, cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		api:   api,
		log:   cfg.Logger,
		poll:  cfg.Poll,
		limit: defaultLimit,
	}
}

// Transport returns the underlying transport, e.g. to change headers or the proxy.
// It is nil for clients built around a custom Doer.
func (c *Client) Transport() *Transport {
	return c.transport
}

// Do sends an arbitrary request through the authenticated transport.
func (c *Client) Do(ctx context.Context, req *Request) (*Result, error) {
	return c.api.Do(ctx, req)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*Result, error) {
	return c.api.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*Result, error) {
	return c.api.Do(ctx, &Request{Method: method, Path: path, Body: body})
}

// GetAccountDetails returns the accounts the current user is a member of.
func (c *Client) GetAccountDetails(ctx context.Context) (*Result, error) {
	return c.get(ctx, "/v1/accounts", nil)
}

// Version returns the version of the REST API server.
func (c *Client) Version(ctx context.Context) (*Result, error) {
	return c.get(ctx, "/v1/version", nil)
}

// Status returns the status of the REST API server.
func (c *Client) Status(ctx context.Context) (*Result, error) {
	return c.get(ctx, "/v1/status", nil)
}

// BatchRequest is a single operation of a batch.
type BatchRequest struct {
	Method string `json:"method"`
	URI    string `json:"uri"`
	Body   any    `json:"body,omitempty"`
}

// Batch sends multiple requests as a single transaction.
func (c *Client) Batch(ctx context.Context, requests ...BatchRequest) (*Result, error) {
	if len(requests) == 0 {
		return nil, &ValidationError{Field: "batch", Reason: "at least one request is required"}
	}

	return c.send(ctx, http.MethodPost, "/v1/batch", requests)
}

// ResultInfo is the paging block of list responses.
type ResultInfo struct {
	TotalCount    int `json:"totalCount"`
	Offset        int `json:"offset"`
	ReturnedCount int `json:"returnedCount"`
}

func iterate[T any](c *Client, fn func(opts *ListOptions) ([]T, ResultInfo, error)) iter.Seq2[T, error] {
	offset := 0
	return func(yield func(T, error) bool) {
		for {
			items, info, err := fn(&ListOptions{Offset: offset, Limit: c.limit})
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			offset += len(items)
			if len(items) < c.limit || (info.TotalCount > 0 && offset >= info.TotalCount) {
				return
			}
		}
	}
}
