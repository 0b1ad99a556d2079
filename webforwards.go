package ultradns

import (
	"context"
	"net/http"
)

// Forward types accepted by CreateWebForward.
const (
	ForwardFramed  = "Framed"
	ForwardHTTP301 = "HTTP_301_REDIRECT"
	ForwardHTTP302 = "HTTP_302_REDIRECT"
	ForwardHTTP303 = "HTTP_303_REDIRECT"
	ForwardHTTP307 = "HTTP_307_REDIRECT"
)

type webForward struct {
	RequestTo          string `json:"requestTo"`
	DefaultRedirectTo  string `json:"defaultRedirectTo"`
	DefaultForwardType string `json:"defaultForwardType"`
}

// ListWebForwards returns web forwards of a zone along with their guids.
func (c *Client) ListWebForwards(ctx context.Context, zone string) (*Result, error) {
	return c.get(ctx, apiPath("v1", "zones", zone, "webforwards"), nil)
}

func (c *Client) CreateWebForward(ctx context.Context, zone, requestTo, redirectTo, forwardType string) (*Result, error) {
	return c.send(ctx, http.MethodPost, apiPath("v1", "zones", zone, "webforwards"), webForward{
		RequestTo:          requestTo,
		DefaultRedirectTo:  redirectTo,
		DefaultForwardType: forwardType,
	})
}

func (c *Client) DeleteWebForward(ctx context.Context, zone, guid string) (*Result, error) {
	return c.send(ctx, http.MethodDelete, apiPath("v1", "zones", zone, "webforwards", guid), nil)
}
