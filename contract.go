//go:generate mockgen -destination mocks.go -package ultradns . Doer,RecordClient
package ultradns

import (
	"context"
)

// Doer executes API requests. *Transport is the production implementation.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Result, error)
}

// RecordClient is the subset of *Client used by Provider.
type RecordClient interface {
	ListAllZones(ctx context.Context) ([]string, error)
	GetRRSets(ctx context.Context, zone string) ([]RRSet, error)
	CreateRRSet(ctx context.Context, zone, rtype, owner string, ttl int, rdata ...string) (*Result, error)
	EditRRSet(ctx context.Context, zone, rtype, owner string, ttl int, rdata []string, profile Profile) (*Result, error)
	DeleteRRSet(ctx context.Context, zone, rtype, owner string) (*Result, error)
}
