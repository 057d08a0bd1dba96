package gorgias

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// EventTypeTicketActivity marks events synthesized from ticket records when
// the account has no event feed.
const EventTypeTicketActivity = "ticket-updated"

// EventListOptions filters an event listing.
type EventListOptions struct {
	ObjectType     string
	ObjectID       int64
	Type           string
	UserID         int64
	Limit          int
	Cursor         string
	OrderBy        string
	OrderDirection string
}

// ListEvents retrieves one page of activity-feed events. Accounts whose
// plan has no event feed get synthesized events instead: one per ticket,
// derived from a plain ticket listing.
func (c *Client) ListEvents(ctx context.Context, opts *EventListOptions) (*EventList, error) {
	if opts == nil {
		opts = &EventListOptions{}
	}

	query := url.Values{}
	if opts.ObjectType != "" {
		query.Set("object_type", opts.ObjectType)
	}
	if opts.ObjectID > 0 {
		query.Set("object_id", strconv.FormatInt(opts.ObjectID, 10))
	}
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}
	if opts.UserID > 0 {
		query.Set("user_id", strconv.FormatInt(opts.UserID, 10))
	}
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if order := orderParam(opts.OrderBy, opts.OrderDirection); order != "" {
		query.Set("order_by", order)
	}

	var result EventList
	err := c.do(ctx, "list_events", http.MethodGet, "/events", query, nil, &result)
	if err == nil {
		return &result, nil
	}
	if !shouldFallback(err) {
		return nil, err
	}
	return c.listEventsFallback(ctx, opts)
}

// listEventsFallback synthesizes one event per ticket from a ticket
// listing, then re-applies the object and user filters locally. Synthesized
// events are ticket-only, so any other object type yields an empty result.
func (c *Client) listEventsFallback(ctx context.Context, opts *EventListOptions) (*EventList, error) {
	if opts.ObjectType != "" && opts.ObjectType != "ticket" {
		return &EventList{Data: []Event{}}, nil
	}
	if opts.Type != "" && opts.Type != EventTypeTicketActivity {
		return &EventList{Data: []Event{}}, nil
	}

	listed, err := c.ListTickets(ctx, &TicketListOptions{Limit: clampLimit(opts.Limit)})
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(listed.Data))
	for _, ticket := range listed.Data {
		if opts.ObjectID > 0 && ticket.ID != opts.ObjectID {
			continue
		}
		if opts.UserID > 0 && (ticket.AssigneeUser == nil || ticket.AssigneeUser.ID != opts.UserID) {
			continue
		}

		when := ticket.CreatedDatetime
		if ticket.UpdatedDatetime != nil {
			when = *ticket.UpdatedDatetime
		}

		events = append(events, Event{
			ID:         ticket.ID,
			ObjectType: "ticket",
			ObjectID:   ticket.ID,
			Type:       EventTypeTicketActivity,
			User:       ticket.AssigneeUser,
			Data: map[string]any{
				"subject": ticket.Subject,
				"status":  ticket.Status,
				"channel": ticket.Channel,
			},
			CreatedDatetime: when,
		})
	}

	return &EventList{Data: events}, nil
}
