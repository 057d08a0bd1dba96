package gorgias

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Message types accepted by SendReply.
const (
	MessageTypeOutgoing     = "outgoing"
	MessageTypeInternalNote = "internal-note"
	MessageTypeIncoming     = "incoming"
)

// ListTicketMessages retrieves one page of a ticket's messages.
func (c *Client) ListTicketMessages(ctx context.Context, ticketID int64, limit int, cursor string) (*MessageList, error) {
	if ticketID <= 0 {
		return nil, NewValidationError("ticket_id", "must be a positive integer")
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(clampLimit(limit)))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var result MessageList
	path := fmt.Sprintf("/tickets/%d/messages", ticketID)
	if err := c.do(ctx, "list_ticket_messages", http.MethodGet, path, query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendReplyRequest describes a message to add to a ticket.
type SendReplyRequest struct {
	TicketID    int64
	MessageType string // outgoing, internal-note or incoming
	BodyText    string
	BodyHTML    string // defaults to BodyText
	SenderEmail string
	// ReceiverEmail is required for outgoing messages.
	ReceiverEmail string
	Subject       string
	// SourceAddress overrides the integration "from" address on outgoing
	// messages.
	SourceAddress string
}

// SendReply adds a message to a ticket. The message shape depends on the
// type: outgoing replies go out over the email channel to the receiver,
// internal notes stay agent-only, and incoming messages record a message
// as if the customer had sent it.
func (c *Client) SendReply(ctx context.Context, req *SendReplyRequest) (*Message, error) {
	if req == nil || req.TicketID <= 0 {
		return nil, NewValidationError("ticket_id", "must be a positive integer")
	}
	if req.BodyText == "" {
		return nil, NewValidationError("body_text", "is required")
	}
	if req.SenderEmail == "" {
		return nil, NewValidationError("sender_email", "is required")
	}
	switch req.MessageType {
	case MessageTypeOutgoing:
		if req.ReceiverEmail == "" {
			return nil, NewValidationError("receiver_email", "is required for outgoing messages")
		}
	case MessageTypeInternalNote, MessageTypeIncoming:
	default:
		return nil, NewValidationError("message_type",
			fmt.Sprintf("must be one of %q, %q, %q", MessageTypeOutgoing, MessageTypeInternalNote, MessageTypeIncoming))
	}

	bodyHTML := req.BodyHTML
	if bodyHTML == "" {
		bodyHTML = req.BodyText
	}

	payload := map[string]any{
		"body_text": req.BodyText,
		"body_html": bodyHTML,
		"sender":    Contact{Email: req.SenderEmail},
	}
	if req.Subject != "" {
		payload["subject"] = req.Subject
	}

	switch req.MessageType {
	case MessageTypeOutgoing:
		payload["from_agent"] = true
		payload["channel"] = "email"
		payload["via"] = "api"
		payload["receiver"] = Contact{Email: req.ReceiverEmail}
		if req.SourceAddress != "" {
			payload["source"] = MessageSource{
				Type: "email",
				From: &Contact{Email: req.SourceAddress},
				To:   []Contact{{Email: req.ReceiverEmail}},
			}
		}
	case MessageTypeInternalNote:
		payload["from_agent"] = true
		payload["channel"] = "internal-note"
		payload["via"] = "api"
	case MessageTypeIncoming:
		payload["from_agent"] = false
		payload["channel"] = "email"
		payload["via"] = "api"
	}

	var result Message
	path := fmt.Sprintf("/tickets/%d/messages", req.TicketID)
	if err := c.do(ctx, "send_reply", http.MethodPost, path, nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
