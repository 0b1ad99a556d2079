package ultradns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const (
	ZoneTypePrimary   = "PRIMARY"
	ZoneTypeSecondary = "SECONDARY"
	ZoneTypeAlias     = "ALIAS"
)

type zoneProperties struct {
	Name        string `json:"name"`
	AccountName string `json:"accountName"`
	Type        string `json:"type"`
}

type nameServer struct {
	IP           string `json:"ip"`
	TSIGKey      string `json:"tsigKey,omitempty"`
	TSIGKeyValue string `json:"tsigKeyValue,omitempty"`
}

// TSIG only applies when both the key and its secret are present.
func newNameServer(ip, tsigKey, keyValue string) nameServer {
	ns := nameServer{IP: ip}
	if tsigKey != "" && keyValue != "" {
		ns.TSIGKey = tsigKey
		ns.TSIGKeyValue = keyValue
	}

	return ns
}

type primaryCreateInfo struct {
	ForceImport bool        `json:"forceImport"`
	CreateType  string      `json:"createType"`
	NameServer  *nameServer `json:"nameServer,omitempty"`
}

type primaryZone struct {
	Properties        zoneProperties    `json:"properties"`
	PrimaryCreateInfo primaryCreateInfo `json:"primaryCreateInfo"`
}

type nameServerList struct {
	NameServerIPList map[string]nameServer `json:"nameServerIpList"`
}

type secondaryCreateInfo struct {
	PrimaryNameServers nameServerList `json:"primaryNameServers"`
}

type secondaryZone struct {
	Properties          *zoneProperties     `json:"properties,omitempty"`
	SecondaryCreateInfo secondaryCreateInfo `json:"secondaryCreateInfo"`
}

func newPrimaryZone(account, zone, createType string) primaryZone {
	return primaryZone{
		Properties: zoneProperties{
			Name:        zone,
			AccountName: account,
			Type:        ZoneTypePrimary,
		},
		PrimaryCreateInfo: primaryCreateInfo{
			ForceImport: true,
			CreateType:  createType,
		},
	}
}

// CreatePrimaryZone creates a new empty primary zone.
func (c *Client) CreatePrimaryZone(ctx context.Context, account, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPost, "/v1/zones", newPrimaryZone(account, zone, "NEW"))
}

// CreatePrimaryZoneByUpload creates a primary zone from a BIND zone file.
func (c *Client) CreatePrimaryZoneByUpload(ctx context.Context, account, zone string, bindFile []byte) (*Result, error) {
	data, err := json.Marshal(newPrimaryZone(account, zone, "UPLOAD"))
	if err != nil {
		return nil, errors.Wrap(err, "marshal zone")
	}

	return c.api.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/v1/zones",
		Parts: []Part{
			{Name: "zone", ContentType: "application/json", Content: data},
			{Name: "file", FileName: "file", ContentType: "application/octet-stream", Content: bindFile},
		},
	})
}

// CreatePrimaryZoneByAXFR creates a primary zone by transferring it from master.
func (c *Client) CreatePrimaryZoneByAXFR(ctx context.Context, account, zone, master, tsigKey, keyValue string) (*Result, error) {
	body := newPrimaryZone(account, zone, "TRANSFER")
	ns := newNameServer(master, tsigKey, keyValue)
	body.PrimaryCreateInfo.NameServer = &ns
	return c.send(ctx, http.MethodPost, "/v1/zones", body)
}

// CreateSecondaryZone creates a secondary zone served from master.
func (c *Client) CreateSecondaryZone(ctx context.Context, account, zone, master, tsigKey, keyValue string) (*Result, error) {
	return c.send(ctx, http.MethodPost, "/v1/zones", secondaryZone{
		Properties: &zoneProperties{
			Name:        zone,
			AccountName: account,
			Type:        ZoneTypeSecondary,
		},
		SecondaryCreateInfo: secondaryCreateInfo{
			PrimaryNameServers: nameServerList{
				NameServerIPList: map[string]nameServer{
					"nameServerIp1": newNameServer(master, tsigKey, keyValue),
				},
			},
		},
	})
}

// ForceAXFR forces a secondary zone transfer.
func (c *Client) ForceAXFR(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPost, apiPath("v1", "zones", zone, "transfer"), nil)
}

// ConvertZone converts a secondary zone to primary. This cannot be reversed.
func (c *Client) ConvertZone(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPost, apiPath("v1", "zones", zone, "convert"), nil)
}

// ResignZone re-signs a DNSSEC signed zone.
func (c *Client) ResignZone(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodPut, apiPath("v1", "zones", zone, "dnssec"), struct{}{})
}

// ListZonesOfAccount lists zones of a single account.
// Query keys: name, zone_type. Sort: NAME, ACCOUNT_NAME, RECORD_COUNT, ZONE_TYPE.
func (c *Client) ListZonesOfAccount(ctx context.Context, account string, opts *ListOptions) (*Result, error) {
	return c.get(ctx, apiPath("v1", "accounts", account, "zones"), opts.Values())
}

// ListZones lists zones across all accounts of the user.
func (c *Client) ListZones(ctx context.Context, opts *ListOptions) (*Result, error) {
	return c.get(ctx, "/v1/zones", opts.Values())
}

// ListZonesV3 lists zones using cursor based paging.
func (c *Client) ListZonesV3(ctx context.Context, opts *ListOptions) (*Result, error) {
	return c.get(ctx, "/v3/zones", opts.Values())
}

func (c *Client) GetZoneMetadata(ctx context.Context, zone string) (*Result, error) {
	return c.get(ctx, apiPath("v1", "zones", zone), nil)
}

func (c *Client) GetZoneMetadataV3(ctx context.Context, zone string) (*Result, error) {
	return c.get(ctx, apiPath("v3", "zones", zone), nil)
}

func (c *Client) DeleteZone(ctx context.Context, zone string) (*Result, error) {
	return c.send(ctx, http.MethodDelete, apiPath("v1", "zones", zone), nil)
}

// EditSecondaryNameServer replaces the transfer name servers of a secondary zone.
// Empty values are skipped and keep their position number.
func (c *Client) EditSecondaryNameServer(ctx context.Context, zone, primary, backup, secondBackup string) (*Result, error) {
	servers := make(map[string]nameServer)
	for i, ip := range []string{primary, backup, secondBackup} {
		if ip != "" {
			servers[fmt.Sprintf("nameServerIp%d", i+1)] = nameServer{IP: ip}
		}
	}

	if len(servers) == 0 {
		return nil, &ValidationError{Field: "name servers", Reason: "at least one is required"}
	}

	return c.send(ctx, http.MethodPatch, apiPath("v1", "zones", zone), secondaryZone{
		SecondaryCreateInfo: secondaryCreateInfo{
			PrimaryNameServers: nameServerList{NameServerIPList: servers},
		},
	})
}

// Zone is a single entry of a zone list.
type Zone struct {
	Properties struct {
		Name        string `json:"name"`
		AccountName string `json:"accountName"`
		Type        string `json:"type"`
		RecordCount int    `json:"resourceRecordCount"`
	} `json:"properties"`
}

type zoneList struct {
	Zones      []Zone     `json:"zones"`
	ResultInfo ResultInfo `json:"resultInfo"`
}

// ListAllZones returns names of all zones visible to the user, following pages.
func (c *Client) ListAllZones(ctx context.Context) ([]string, error) {
	iterator := iterate(c, func(opts *ListOptions) ([]Zone, ResultInfo, error) {
		result, err := c.ListZones(ctx, opts)
		if err != nil {
			return nil, ResultInfo{}, err
		}

		var list zoneList
		if err := result.Decode(&list); err != nil {
			return nil, ResultInfo{}, err
		}

		return list.Zones, list.ResultInfo, nil
	})

	var names []string
	for zone, err := range iterator {
		if err != nil {
			return nil, errors.Wrap(err, "list zones")
		}

		names = append(names, zone.Properties.Name)
	}

	return names, nil
}
