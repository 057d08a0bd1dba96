package gorgias

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// TicketListOptions filters a ticket listing. Zero values are omitted from
// the request.
type TicketListOptions struct {
	CustomerID     int64
	Status         string
	Channel        string
	Tags           []string
	Limit          int // default 50, max 100
	Cursor         string
	OrderBy        string // e.g. "created_datetime"
	OrderDirection string // "asc" or "desc", default "desc"
}

// ListTickets retrieves one page of tickets.
func (c *Client) ListTickets(ctx context.Context, opts *TicketListOptions) (*TicketList, error) {
	query := url.Values{}
	if opts == nil {
		opts = &TicketListOptions{}
	}
	if opts.CustomerID > 0 {
		query.Set("customer_id", strconv.FormatInt(opts.CustomerID, 10))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.Channel != "" {
		query.Set("channel", opts.Channel)
	}
	if len(opts.Tags) > 0 {
		query.Set("tags", strings.Join(opts.Tags, ","))
	}
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if order := orderParam(opts.OrderBy, opts.OrderDirection); order != "" {
		query.Set("order_by", order)
	}

	var result TicketList
	if err := c.do(ctx, "list_tickets", http.MethodGet, "/tickets", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTicket retrieves a single ticket by ID.
func (c *Client) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	if id <= 0 {
		return nil, NewValidationError("ticket_id", "must be a positive integer")
	}
	var result Ticket
	path := fmt.Sprintf("/tickets/%d", id)
	if err := c.do(ctx, "get_ticket", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TicketUpdate is a partial ticket update. Nil pointers leave the remote
// field untouched; only the fields present are transmitted.
type TicketUpdate struct {
	Status *string
	// AssigneeUserID assigns the ticket; a pointer to zero or a negative
	// value unassigns it (transmitted as null).
	AssigneeUserID *int64
	// Tags replaces the whole tag set when present (not a merge).
	Tags     *[]string
	Priority *string
	Subject  *string
	Meta     map[string]any
}

// isEmpty reports whether the update carries no fields at all.
func (u *TicketUpdate) isEmpty() bool {
	return u.Status == nil && u.AssigneeUserID == nil && u.Tags == nil &&
		u.Priority == nil && u.Subject == nil && len(u.Meta) == 0
}

// UpdateTicket applies a partial update and returns the updated ticket.
func (c *Client) UpdateTicket(ctx context.Context, id int64, update *TicketUpdate) (*Ticket, error) {
	if id <= 0 {
		return nil, NewValidationError("ticket_id", "must be a positive integer")
	}
	if update == nil || update.isEmpty() {
		return nil, NewValidationError("update", "at least one field must be provided")
	}

	payload := map[string]any{}
	if update.Status != nil {
		payload["status"] = *update.Status
	}
	if update.AssigneeUserID != nil {
		if *update.AssigneeUserID > 0 {
			payload["assignee_user"] = map[string]any{"id": *update.AssigneeUserID}
		} else {
			payload["assignee_user"] = nil
		}
	}
	if update.Tags != nil {
		tags := make([]Tag, 0, len(*update.Tags))
		for _, name := range *update.Tags {
			tags = append(tags, Tag{Name: name})
		}
		payload["tags"] = tags
	}
	if update.Priority != nil {
		payload["priority"] = *update.Priority
	}
	if update.Subject != nil {
		payload["subject"] = *update.Subject
	}
	if len(update.Meta) > 0 {
		payload["meta"] = update.Meta
	}

	var result Ticket
	path := fmt.Sprintf("/tickets/%d", id)
	if err := c.do(ctx, "update_ticket", http.MethodPut, path, nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TicketSearchOptions filters a ticket search. Query is required.
type TicketSearchOptions struct {
	Query          string
	Channel        string
	Status         string
	AssigneeUserID int64
	CustomerEmail  string
	Tags           []string
	CreatedAfter   string // YYYY-MM-DD
	CreatedBefore  string // YYYY-MM-DD
	Limit          int
	Cursor         string
}

// SearchTickets runs the dedicated search endpoint, degrading to a plain
// listing with client-side filtering when the endpoint is unsupported on
// the account's plan. The fallback trades search relevance for
// availability: it substring-matches the query against subject and
// customer email only.
func (c *Client) SearchTickets(ctx context.Context, opts *TicketSearchOptions) (*TicketList, error) {
	if opts == nil || strings.TrimSpace(opts.Query) == "" {
		return nil, NewValidationError("query", "is required")
	}

	query := url.Values{}
	query.Set("query", opts.Query)
	if opts.Channel != "" {
		query.Set("channel", opts.Channel)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.AssigneeUserID > 0 {
		query.Set("assignee_user_id", strconv.FormatInt(opts.AssigneeUserID, 10))
	}
	if opts.CustomerEmail != "" {
		query.Set("customer_email", opts.CustomerEmail)
	}
	if len(opts.Tags) > 0 {
		query.Set("tags", strings.Join(opts.Tags, ","))
	}
	if opts.CreatedAfter != "" {
		query.Set("created_datetime__gte", opts.CreatedAfter)
	}
	if opts.CreatedBefore != "" {
		query.Set("created_datetime__lte", opts.CreatedBefore)
	}
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var result TicketList
	err := c.do(ctx, "search_tickets", http.MethodGet, "/search/tickets", query, nil, &result)
	if err == nil {
		return &result, nil
	}
	if !shouldFallback(err) {
		return nil, err
	}
	return c.searchTicketsFallback(ctx, opts)
}

// searchTicketsFallback lists tickets and filters them locally.
func (c *Client) searchTicketsFallback(ctx context.Context, opts *TicketSearchOptions) (*TicketList, error) {
	listed, err := c.ListTickets(ctx, &TicketListOptions{Limit: maxListLimit})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(opts.Query)
	limit := clampLimit(opts.Limit)
	matched := make([]Ticket, 0, limit)
	for _, ticket := range listed.Data {
		customerEmail := ""
		if ticket.Customer != nil {
			customerEmail = ticket.Customer.Email
		}
		if !strings.Contains(strings.ToLower(ticket.Subject), needle) &&
			!strings.Contains(strings.ToLower(customerEmail), needle) {
			continue
		}
		if opts.Status != "" && ticket.Status != opts.Status {
			continue
		}
		if opts.Channel != "" && ticket.Channel != opts.Channel {
			continue
		}
		if opts.CustomerEmail != "" && !strings.EqualFold(customerEmail, opts.CustomerEmail) {
			continue
		}
		matched = append(matched, ticket)
		if len(matched) >= limit {
			break
		}
	}

	return &TicketList{Data: matched}, nil
}

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// clampLimit applies the default page size and the hard cap.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
