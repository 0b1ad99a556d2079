package ultradns

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// Report processing codes. The report is not ready yet while one of them is returned.
var reportPendingCodes = []string{"410004", "410005"}

type SortFields map[string]string

type hostQueryVolume struct {
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	ZoneNames []string `json:"zoneNames"`
}

// CreateAdvancedNXDomainReport requests a report of queries for non-existent names.
// The range must not exceed 30 days. limit defaults to 100.
func (c *Client) CreateAdvancedNXDomainReport(ctx context.Context, start, end time.Time, zones []string, limit int) (*Result, error) {
	if len(zones) == 0 {
		return nil, &ValidationError{Field: "zones", Reason: "at least one zone is required"}
	}

	if limit <= 0 {
		limit = 100
	}

	query := url.Values{
		"advance":    {"true"},
		"reportType": {"ADVANCED_NXDOMAINS"},
		"limit":      {strconv.Itoa(limit)},
	}

	return c.api.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/v1/reports/dns_resolution/query_volume/host",
		Query:  query,
		Body: map[string]any{
			"hostQueryVolume": hostQueryVolume{
				StartDate: start.Format(dateLayout),
				EndDate:   end.Format(dateLayout),
				ZoneNames: zones,
			},
			"sortFields": SortFields{"nxdomainCount": "DESC"},
		},
	})
}

// CreateProjectedQueryVolumeReport requests projected query volume for an account.
// Sorting defaults to rspMtd descending.
func (c *Client) CreateProjectedQueryVolumeReport(ctx context.Context, account string, sort SortFields) (*Result, error) {
	if len(sort) == 0 {
		sort = SortFields{"rspMtd": "DESC"}
	}

	return c.send(ctx, http.MethodPost, "/v1/reports/dns_resolution/projected_query_volume", map[string]any{
		"projectedQueryVolume": map[string]string{"accountName": account},
		"sortFields":           sort,
	})
}

// CreateZoneQueryVolumeReport requests query volume aggregated per zone for up to 13 months.
// filter may carry zoneName, accountName or ultra2. Sorting defaults to zoneName and endDate ascending,
// limit to 1000.
func (c *Client) CreateZoneQueryVolumeReport(ctx context.Context, start, end time.Time, filter map[string]any, sort SortFields, offset, limit int) (*Result, error) {
	volume := make(map[string]any, len(filter)+2)
	maps.Copy(volume, filter)

	volume["startDate"] = start.Format(dateLayout)
	volume["endDate"] = end.Format(dateLayout)

	if len(sort) == 0 {
		sort = SortFields{"zoneName": "ASC", "endDate": "ASC"}
	}

	if limit <= 0 {
		limit = 1000
	}

	return c.api.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/v1/reports/dns_resolution/query_volume/zone",
		Query: url.Values{
			"offset": {strconv.Itoa(max(offset, 0))},
			"limit":  {strconv.Itoa(limit)},
		},
		Body: map[string]any{
			"zoneQueryVolume": volume,
			"sortFields":      sort,
		},
	})
}

// GetReportResults fetches a report by the requestId returned on creation.
func (c *Client) GetReportResults(ctx context.Context, requestID string) (*Result, error) {
	return c.get(ctx, apiPath("v1", "requests", requestID), nil)
}

// WaitForReport polls a report until it is no longer being processed.
func (c *Client) WaitForReport(ctx context.Context, requestID string) (*Result, error) {
	result, err := poll(ctx, c.poll, func(ctx context.Context) (*Result, bool, error) {
		result, err := c.GetReportResults(ctx, requestID)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && reportPending(apiErr.Body) {
				return nil, false, nil
			}

			return nil, false, err
		}

		return result, !reportPending(result.Body), nil
	})

	return result, errors.Wrapf(err, "wait for report %s", requestID)
}

// ReportRequestID extracts the requestId from a report creation result.
func ReportRequestID(result *Result) (string, error) {
	var body struct {
		RequestID string `json:"requestId"`
	}

	if err := result.Decode(&body); err != nil {
		return "", err
	}

	if body.RequestID == "" {
		return "", errors.New("no requestId in response")
	}

	return body.RequestID, nil
}

func reportPending(body []byte) bool {
	var payload struct {
		ErrorCode any `json:"errorCode"`
		Errors    []struct {
			Code      any `json:"code"`
			ErrorCode any `json:"errorCode"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		var list []struct {
			ErrorCode any `json:"errorCode"`
		}

		if err := json.Unmarshal(body, &list); err != nil {
			return false
		}

		for _, item := range list {
			if pendingCode(item.ErrorCode) {
				return true
			}
		}

		return false
	}

	if pendingCode(payload.ErrorCode) {
		return true
	}

	for _, item := range payload.Errors {
		if pendingCode(item.Code) || pendingCode(item.ErrorCode) {
			return true
		}
	}

	return false
}

func pendingCode(code any) bool {
	if code == nil {
		return false
	}

	var s string
	switch code := code.(type) {
	case float64:
		s = strconv.FormatFloat(code, 'f', -1, 64)
	default:
		s = fmt.Sprint(code)
	}

	return slices.Contains(reportPendingCodes, s)
}
