package ultradns

import (
	"context"
	"net/http"
)

// CreateHealthCheck starts a zone health check.
// The result location holds the timestamp needed by GetHealthCheck.
func (c *Client) CreateHealthCheck(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPost, apiPath("v1", "zones", zone, "healthchecks"), struct{}{})
}

func (c *Client) GetHealthCheck(ctx context.Context, zone, timestamp string) (*Result, error) {
	return c.get(ctx, apiPath("v1", "zones", zone, "healthchecks", timestamp), nil)
}

// CreateDanglingCNAMECheck starts a dangling CNAME check. Only the latest result is kept per zone.
func (c *Client) CreateDanglingCNAMECheck(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPost, apiPath("v1", "zones", zone, "healthchecks", "dangling"), struct{}{})
}

func (c *Client) GetDanglingCNAMECheck(ctx context.Context, zone string) (*Result, error) {
	return c.get(ctx, apiPath("v1", "zones", zone, "healthchecks", "dangling"), nil)
}
