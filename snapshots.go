package ultradns

import (
	"context"
	"net/http"
)

// CreateSnapshot captures the current state of a zone. A zone keeps a single snapshot.
// The result carries the task ID of the snapshot creation.
func (c *Client) CreateSnapshot(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPost, apiPath("v1", "zones", zone, "snapshot"), struct{}{})
}

func (c *Client) GetSnapshot(ctx context.Context, zone string) (*Result, error) {
	return c.get(ctx, apiPath("v1", "zones", zone, "snapshot"), nil)
}

// RestoreSnapshot reverts the zone to its snapshot, discarding all later changes.
func (c *Client) RestoreSnapshot(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPost, apiPath("v1", "zones", zone, "restore"), struct{}{})
}
