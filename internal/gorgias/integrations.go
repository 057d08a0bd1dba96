package gorgias

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// IntegrationListOptions filters an integration listing. ActiveOnly
// defaults to true at the tool boundary; here false means "include
// disabled".
type IntegrationListOptions struct {
	Type       string
	ActiveOnly bool
	Limit      int
}

// ListIntegrations retrieves the account's channel integrations. The
// active-only filter is applied locally since the remote listing returns
// both.
func (c *Client) ListIntegrations(ctx context.Context, opts *IntegrationListOptions) (*IntegrationList, error) {
	if opts == nil {
		opts = &IntegrationListOptions{ActiveOnly: true}
	}

	query := url.Values{}
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))

	var result IntegrationList
	if err := c.do(ctx, "list_integrations", http.MethodGet, "/integrations", query, nil, &result); err != nil {
		return nil, err
	}

	if opts.ActiveOnly {
		active := make([]Integration, 0, len(result.Data))
		for _, integration := range result.Data {
			if integration.Enabled {
				active = append(active, integration)
			}
		}
		result.Data = active
	}
	return &result, nil
}
