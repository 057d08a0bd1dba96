package gorgias

import (
	"time"
)

// Ticket is a support ticket as returned by the Gorgias API. Snapshots are
// immutable; nothing is cached or persisted locally.
type Ticket struct {
	ID                  int64          `json:"id"`
	Status              string         `json:"status"`
	Channel             string         `json:"channel"`
	Via                 string         `json:"via,omitempty"`
	Subject             string         `json:"subject"`
	Customer            *Contact       `json:"customer,omitempty"`
	AssigneeUser        *User          `json:"assignee_user,omitempty"`
	Tags                []Tag          `json:"tags,omitempty"`
	Priority            string         `json:"priority,omitempty"`
	MessagesCount       int            `json:"messages_count"`
	SatisfactionScore   *float64       `json:"satisfaction_score,omitempty"`
	Meta                map[string]any `json:"meta,omitempty"`
	CreatedDatetime     time.Time      `json:"created_datetime"`
	UpdatedDatetime     *time.Time     `json:"updated_datetime,omitempty"`
	LastMessageDatetime *time.Time     `json:"last_message_datetime,omitempty"`
}

// Tag is a label attached to a ticket.
type Tag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// User is an agent account referenced by tickets and events.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Contact identifies a message participant or a ticket's customer.
type Contact struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Customer is a helpdesk customer record.
type Customer struct {
	ID              int64             `json:"id"`
	Email           string            `json:"email"`
	ExternalID      string            `json:"external_id,omitempty"`
	FirstName       string            `json:"firstname,omitempty"`
	LastName        string            `json:"lastname,omitempty"`
	Name            string            `json:"name,omitempty"`
	Channels        []CustomerChannel `json:"channels,omitempty"`
	Meta            map[string]any    `json:"meta,omitempty"`
	CreatedDatetime time.Time         `json:"created_datetime"`
	UpdatedDatetime *time.Time        `json:"updated_datetime,omitempty"`
}

// CustomerChannel is a way of reaching a customer (email address, phone
// number, social handle).
type CustomerChannel struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// CustomerDetails is a customer plus the optional expansions requested
// through GetCustomerDetails.
type CustomerDetails struct {
	Customer     Customer      `json:"customer"`
	Integrations []Integration `json:"integrations,omitempty"`
}

// Message is a single message inside a ticket conversation.
type Message struct {
	ID              int64             `json:"id"`
	TicketID        int64             `json:"ticket_id"`
	FromAgent       bool              `json:"from_agent"`
	Channel         string            `json:"channel"`
	Via             string            `json:"via,omitempty"`
	Sender          *Contact          `json:"sender,omitempty"`
	Receiver        *Contact          `json:"receiver,omitempty"`
	Subject         string            `json:"subject,omitempty"`
	BodyText        string            `json:"body_text"`
	BodyHTML        string            `json:"body_html,omitempty"`
	StrippedText    string            `json:"stripped_text,omitempty"`
	Attachments     []Attachment      `json:"attachments,omitempty"`
	Source          *MessageSource    `json:"source,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	CreatedDatetime time.Time         `json:"created_datetime"`
	SentDatetime    *time.Time        `json:"sent_datetime,omitempty"`
}

// MessageSource carries the routing addresses used when a reply is sent
// through an email integration.
type MessageSource struct {
	Type string    `json:"type"`
	From *Contact  `json:"from,omitempty"`
	To   []Contact `json:"to,omitempty"`
}

// Attachment is a file attached to a message.
type Attachment struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Integration is a configured channel integration (email, chat, social).
// Settings may carry the address used as the "from" address for replies.
type Integration struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Enabled  bool           `json:"enabled"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Event is an activity-feed entry. When the account's plan has no event
// feed, events are synthesized from tickets (see ListEvents).
type Event struct {
	ID              int64          `json:"id"`
	ObjectType      string         `json:"object_type"`
	ObjectID        int64          `json:"object_id"`
	Type            string         `json:"type"`
	User            *User          `json:"user,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
	CreatedDatetime time.Time      `json:"created_datetime"`
}

// ListMeta is the pagination envelope shared by all list responses. A
// non-empty NextCursor means more pages exist; callers drive the loop.
type ListMeta struct {
	NextCursor string `json:"next_cursor,omitempty"`
	PrevCursor string `json:"prev_cursor,omitempty"`
	TotalCount *int   `json:"total_count,omitempty"`
}

// TicketList is one page of tickets.
type TicketList struct {
	Data []Ticket `json:"data"`
	Meta ListMeta `json:"meta"`
}

// CustomerList is one page of customers.
type CustomerList struct {
	Data []Customer `json:"data"`
	Meta ListMeta   `json:"meta"`
}

// MessageList is one page of ticket messages.
type MessageList struct {
	Data []Message `json:"data"`
	Meta ListMeta  `json:"meta"`
}

// EventList is one page of events.
type EventList struct {
	Data []Event  `json:"data"`
	Meta ListMeta `json:"meta"`
}

// IntegrationList is one page of integrations.
type IntegrationList struct {
	Data []Integration `json:"data"`
	Meta ListMeta      `json:"meta"`
}

// TagNames flattens a tag set to its names.
func TagNames(tags []Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}
