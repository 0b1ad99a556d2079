package ultradns

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Profile carries pool settings of an RRSet (RD, SB, TC pools and others).
type Profile map[string]any

// RRSet is a resource record set as returned by the API.
type RRSet struct {
	OwnerName string   `json:"ownerName"`
	RRType    string   `json:"rrtype"`
	TTL       int      `json:"ttl"`
	RData     []string `json:"rdata"`
	Profile   Profile  `json:"profile,omitempty"`
}

// Type returns the mnemonic record type. The API reports types as "A (1)".
func (s RRSet) Type() string {
	rtype, _, _ := strings.Cut(s.RRType, " ")
	return rtype
}

type rrSetList struct {
	ZoneName   string     `json:"zoneName"`
	RRSets     []RRSet    `json:"rrSets"`
	ResultInfo ResultInfo `json:"resultInfo"`
}

type rrSetBody struct {
	TTL     int      `json:"ttl"`
	RData   []string `json:"rdata"`
	Profile Profile  `json:"profile,omitempty"`
}

// rdataBody leaves the TTL of the stored RRSet untouched.
type rdataBody struct {
	RData   []string `json:"rdata"`
	Profile Profile  `json:"profile,omitempty"`
}

func rrSetPath(zone, rtype, owner string) string {
	return apiPath("v1", "zones", zone, "rrsets", rtype, owner)
}

// ListRRSets lists RRSets of a zone.
// Query keys: ttl, owner, value, kind. Sort: OWNER, TTL, TYPE.
func (c *Client) ListRRSets(ctx context.Context, zone string, opts *ListOptions) (*Result, error) {
	return c.get(ctx, apiPath("v1", "zones", zone, "rrsets"), opts.Values())
}

// ListRRSetsByType lists RRSets of a zone with the given type, numeric (1) or mnemonic (A).
func (c *Client) ListRRSetsByType(ctx context.Context, zone, rtype string, opts *ListOptions) (*Result, error) {
	return c.get(ctx, apiPath("v1", "zones", zone, "rrsets", rtype), opts.Values())
}

// ListRRSetsByTypeOwner lists RRSets with the given type and owner.
// An owner without a trailing dot is relative to the zone.
func (c *Client) ListRRSetsByTypeOwner(ctx context.Context, zone, rtype, owner string, opts *ListOptions) (*Result, error) {
	return c.get(ctx, rrSetPath(zone, rtype, owner), opts.Values())
}

// GetRRSets returns all RRSets of a zone, following pages.
// A zone without records yields an empty slice.
func (c *Client) GetRRSets(ctx context.Context, zone string) ([]RRSet, error) {
	iterator := iterate(c, func(opts *ListOptions) ([]RRSet, ResultInfo, error) {
		result, err := c.ListRRSets(ctx, zone, opts)
		if err != nil {
			return nil, ResultInfo{}, err
		}

		var list rrSetList
		if err := result.Decode(&list); err != nil {
			return nil, ResultInfo{}, err
		}

		return list.RRSets, list.ResultInfo, nil
	})

	var sets []RRSet
	for set, err := range iterator {
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound && apiErr.HasCode(codeDataNotFound) {
				return nil, nil
			}

			return nil, errors.Wrap(err, "list RR sets")
		}

		sets = append(sets, set)
	}

	return sets, nil
}

// codeDataNotFound is returned for list requests with no matching RRSets.
const codeDataNotFound = 70002

// CreateRRSet creates an RRSet. A single rdata value is sent as a one-element list.
func (c *Client) CreateRRSet(ctx context.Context, zone, rtype, owner string, ttl int, rdata ...string) (*Result, error) {
	if len(rdata) == 0 {
		return nil, &ValidationError{Field: "rdata", Reason: "at least one value is required"}
	}

	return c.send(ctx, http.MethodPost, rrSetPath(zone, rtype, owner), rrSetBody{TTL: ttl, RData: rdata})
}

// EditRRSet replaces an RRSet. The profile is only sent when non-empty.
func (c *Client) EditRRSet(ctx context.Context, zone, rtype, owner string, ttl int, rdata []string, profile Profile) (*Result, error) {
	return c.send(ctx, http.MethodPut, rrSetPath(zone, rtype, owner), rrSetBody{TTL: ttl, RData: rdata, Profile: profile})
}

// EditRRSetRData updates the rdata of an RRSet, keeping its TTL.
// Pools cannot be patched, so a profile switches the request to a full replace.
func (c *Client) EditRRSetRData(ctx context.Context, zone, rtype, owner string, rdata []string, profile Profile) (*Result, error) {
	return c.send(ctx, rdataEditMethod(profile), rrSetPath(zone, rtype, owner), rdataBody{RData: rdata, Profile: profile})
}

func rdataEditMethod(profile Profile) string {
	if len(profile) > 0 {
		return http.MethodPut
	}

	return http.MethodPatch
}

func (c *Client) DeleteRRSet(ctx context.Context, zone, rtype, owner string) (*Result, error) {
	return c.send(ctx, http.MethodDelete, rrSetPath(zone, rtype, owner), nil)
}

var _ RecordClient = (*Client)(nil)
