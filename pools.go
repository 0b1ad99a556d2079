package ultradns

import (
	"context"
	"maps"
	"net/http"
)

const (
	rdPoolContext = "http://schemas.ultradns.com/RDPool.jsonschema"
	sbPoolContext = "http://schemas.ultradns.com/SBPool.jsonschema"
	tcPoolContext = "http://schemas.ultradns.com/TCPool.jsonschema"
)

// RDPoolOptions are the optional settings of a resource distribution pool.
type RDPoolOptions struct {
	// Order is one of ROUND_ROBIN (default), FIXED, RANDOM.
	Order string
	// IPv6 makes an AAAA pool instead of A.
	IPv6 bool
	// Description defaults to the owner name.
	Description string
}

func (o RDPoolOptions) rtype() string {
	if o.IPv6 {
		return "AAAA"
	}

	return "A"
}

func (o RDPoolOptions) rrSet(owner string, ttl int, rdata []string) rrSetBody {
	order := o.Order
	if order == "" {
		order = "ROUND_ROBIN"
	}

	description := o.Description
	if description == "" {
		description = owner
	}

	return rrSetBody{
		TTL:   ttl,
		RData: rdata,
		Profile: Profile{
			"@context":    rdPoolContext,
			"order":       order,
			"description": description,
		},
	}
}

func (c *Client) CreateRDPool(ctx context.Context, zone, owner string, ttl int, rdata []string, opts RDPoolOptions) (*Result, error) {
	return c.send(ctx, http.MethodPost, rrSetPath(zone, opts.rtype(), owner), opts.rrSet(owner, ttl, rdata))
}

func (c *Client) EditRDPool(ctx context.Context, zone, owner string, ttl int, rdata []string, opts RDPoolOptions) (*Result, error) {
	return c.send(ctx, http.MethodPut, rrSetPath(zone, opts.rtype(), owner), opts.rrSet(owner, ttl, rdata))
}

func (c *Client) ListRDPools(ctx context.Context, zone string) (*Result, error) {
	opts := &ListOptions{Query: map[string]string{"kind": "RD_POOLS"}}
	return c.ListRRSets(ctx, zone, opts)
}

func (c *Client) DeleteRDPool(ctx context.Context, zone, owner string, ipv6 bool) (*Result, error) {
	return c.DeleteRRSet(ctx, zone, RDPoolOptions{IPv6: ipv6}.rtype(), owner)
}

// PoolRecord is a pool member with its rdataInfo (state, priority, threshold and so on).
// Members are sent in slice order.
type PoolRecord struct {
	RData string
	Info  map[string]any
}

// BackupRecord is served when all pool members fail.
type BackupRecord struct {
	RData         string `json:"rdata"`
	FailoverDelay int    `json:"failoverDelay,omitempty"`
}

func poolRRSet(schema string, ttl int, pool map[string]any, records []PoolRecord, backup map[string]any) rrSetBody {
	rdata := make([]string, len(records))
	infos := make([]map[string]any, len(records))
	for i, record := range records {
		rdata[i] = record.RData
		infos[i] = record.Info
		if infos[i] == nil {
			infos[i] = map[string]any{}
		}
	}

	profile := Profile{
		"@context":  schema,
		"rdataInfo": infos,
	}

	maps.Copy(profile, backup)
	maps.Copy(profile, pool)

	return rrSetBody{TTL: ttl, RData: rdata, Profile: profile}
}

// CreateSBPool creates a simple failover pool. Pool keys (runProbes, actOnProbes,
// order, maxActive, maxServed, description) go into the profile verbatim.
func (c *Client) CreateSBPool(ctx context.Context, zone, owner string, ttl int, pool map[string]any, records []PoolRecord, backups []BackupRecord) (*Result, error) {
	body := poolRRSet(sbPoolContext, ttl, pool, records, map[string]any{"backupRecords": backups})
	return c.send(ctx, http.MethodPost, rrSetPath(zone, "A", owner), body)
}

func (c *Client) EditSBPool(ctx context.Context, zone, owner string, ttl int, pool map[string]any, records []PoolRecord, backups []BackupRecord) (*Result, error) {
	body := poolRRSet(sbPoolContext, ttl, pool, records, map[string]any{"backupRecords": backups})
	return c.send(ctx, http.MethodPut, rrSetPath(zone, "A", owner), body)
}

// CreateTCPool creates a traffic controller pool with a single backup record.
func (c *Client) CreateTCPool(ctx context.Context, zone, owner string, ttl int, pool map[string]any, records []PoolRecord, backup BackupRecord) (*Result, error) {
	body := poolRRSet(tcPoolContext, ttl, pool, records, map[string]any{"backupRecord": backup})
	return c.send(ctx, http.MethodPost, rrSetPath(zone, "A", owner), body)
}

func (c *Client) EditTCPool(ctx context.Context, zone, owner string, ttl int, pool map[string]any, records []PoolRecord, backup BackupRecord) (*Result, error) {
	body := poolRRSet(tcPoolContext, ttl, pool, records, map[string]any{"backupRecord": backup})
	return c.send(ctx, http.MethodPut, rrSetPath(zone, "A", owner), body)
}
