package gorgias

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
)

// emailPattern accepts the standard local@domain.tld shape. Deliberately
// loose beyond that; the remote API is the authority on deliverability.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CustomerListOptions filters a customer listing.
type CustomerListOptions struct {
	Email          string
	ExternalID     string
	Limit          int
	Cursor         string
	OrderBy        string
	OrderDirection string
}

// ListCustomers retrieves one page of customers.
func (c *Client) ListCustomers(ctx context.Context, opts *CustomerListOptions) (*CustomerList, error) {
	query := url.Values{}
	if opts == nil {
		opts = &CustomerListOptions{}
	}
	if opts.Email != "" {
		query.Set("email", opts.Email)
	}
	if opts.ExternalID != "" {
		query.Set("external_id", opts.ExternalID)
	}
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if order := orderParam(opts.OrderBy, opts.OrderDirection); order != "" {
		query.Set("order_by", order)
	}

	var result CustomerList
	if err := c.do(ctx, "list_customers", http.MethodGet, "/customers", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCustomer retrieves a single customer by ID.
func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	if id <= 0 {
		return nil, NewValidationError("customer_id", "must be a positive integer")
	}
	var result Customer
	path := fmt.Sprintf("/customers/%d", id)
	if err := c.do(ctx, "get_customer", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CustomerDetailOptions selects optional expansions for GetCustomerDetails.
// The flags are hints: the remote system may not honor all of them, and
// channels and metadata are usually part of the customer record already.
type CustomerDetailOptions struct {
	IncludeChannels     bool
	IncludeIntegrations bool
	IncludeMeta         bool
}

// GetCustomerDetails retrieves a customer together with the requested
// expansions. Integration data comes from a separate listing call.
func (c *Client) GetCustomerDetails(ctx context.Context, id int64, opts *CustomerDetailOptions) (*CustomerDetails, error) {
	customer, err := c.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &CustomerDetails{Customer: *customer}
	if opts == nil {
		return details, nil
	}
	if !opts.IncludeChannels {
		details.Customer.Channels = nil
	}
	if !opts.IncludeMeta {
		details.Customer.Meta = nil
	}
	if opts.IncludeIntegrations {
		integrations, err := c.ListIntegrations(ctx, &IntegrationListOptions{ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		details.Integrations = integrations.Data
	}
	return details, nil
}

// CustomerCreateRequest describes a customer to create. Email is required.
type CustomerCreateRequest struct {
	Email      string
	FirstName  string
	LastName   string
	Name       string
	ExternalID string
	Channels   []CustomerChannel
	Meta       map[string]any
}

// CreateCustomer creates a customer. The email shape is checked before any
// network call is made.
func (c *Client) CreateCustomer(ctx context.Context, req *CustomerCreateRequest) (*Customer, error) {
	if req == nil || req.Email == "" {
		return nil, NewValidationError("email", "is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, NewValidationError("email", fmt.Sprintf("%q is not a valid email address", req.Email))
	}

	payload := map[string]any{"email": req.Email}
	if req.FirstName != "" {
		payload["firstname"] = req.FirstName
	}
	if req.LastName != "" {
		payload["lastname"] = req.LastName
	}
	if req.Name != "" {
		payload["name"] = req.Name
	}
	if req.ExternalID != "" {
		payload["external_id"] = req.ExternalID
	}
	if len(req.Channels) > 0 {
		payload["channels"] = req.Channels
	}
	if len(req.Meta) > 0 {
		payload["meta"] = req.Meta
	}

	var result Customer
	if err := c.do(ctx, "create_customer", http.MethodPost, "/customers", nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
