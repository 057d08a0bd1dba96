package mcp

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/gorgias-tools/gorgias-mcp/internal/extract"
	"github.com/gorgias-tools/gorgias-mcp/internal/gorgias"
)

// maxStringArg caps any single string argument. Longer values are almost
// certainly prompt-injection payloads or mistakes, not support data.
const maxStringArg = 10000

const argDateLayout = "2006-01-02"

// Argument coercion helpers. JSON numbers arrive as float64; some clients
// send json.Number instead.

func getString(args map[string]any, key, defaultVal string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return sanitizeString(s)
		}
	}
	return defaultVal
}

func getInt(args map[string]any, key string, defaultVal int) int {
	return int(getInt64(args, key, int64(defaultVal)))
}

func getInt64(args map[string]any, key string, defaultVal int64) int64 {
	if v, ok := args[key]; ok {
		switch val := v.(type) {
		case float64:
			return int64(val)
		case int:
			return int64(val)
		case int64:
			return val
		case json.Number:
			if i, err := val.Int64(); err == nil {
				return i
			}
		}
	}
	return defaultVal
}

func getBool(args map[string]any, key string, defaultVal bool) bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

func getStringSlice(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, sanitizeString(s))
		}
	}
	return out
}

func getMap(args map[string]any, key string) map[string]any {
	if v, ok := args[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// sanitizeString trims whitespace, strips control characters and caps the
// length. Newlines and tabs survive since message bodies carry them.
func sanitizeString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStringArg {
		s = s[:maxStringArg]
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func parseDateArg(args map[string]any, key string) (*time.Time, error) {
	raw := getString(args, key, "")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(argDateLayout, raw)
	if err != nil {
		return nil, gorgias.NewValidationError(key, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// Per-tool argument parsing. Each function validates and coerces the
// free-form argument map into the typed request the client expects, so
// nothing downstream handles partially validated data.

func parseListTicketsArgs(args map[string]any) (*gorgias.TicketListOptions, error) {
	return &gorgias.TicketListOptions{
		CustomerID:     getInt64(args, "customer_id", 0),
		Status:         getString(args, "status", ""),
		Channel:        getString(args, "channel", ""),
		Tags:           getStringSlice(args, "tags"),
		Limit:          getInt(args, "limit", 0),
		Cursor:         getString(args, "cursor", ""),
		OrderBy:        getString(args, "order_by", ""),
		OrderDirection: getString(args, "order_direction", ""),
	}, nil
}

func parseTicketIDArg(args map[string]any) (int64, error) {
	id := getInt64(args, "ticket_id", 0)
	if id <= 0 {
		return 0, gorgias.NewValidationError("ticket_id", "is required and must be a positive integer")
	}
	return id, nil
}

func parseListCustomersArgs(args map[string]any) (*gorgias.CustomerListOptions, error) {
	return &gorgias.CustomerListOptions{
		Email:          getString(args, "email", ""),
		ExternalID:     getString(args, "external_id", ""),
		Limit:          getInt(args, "limit", 0),
		Cursor:         getString(args, "cursor", ""),
		OrderBy:        getString(args, "order_by", ""),
		OrderDirection: getString(args, "order_direction", ""),
	}, nil
}

func parseGetCustomerArgs(args map[string]any) (int64, *gorgias.CustomerDetailOptions, error) {
	id := getInt64(args, "customer_id", 0)
	if id <= 0 {
		return 0, nil, gorgias.NewValidationError("customer_id", "is required and must be a positive integer")
	}
	opts := &gorgias.CustomerDetailOptions{
		IncludeChannels:     getBool(args, "include_channels", true),
		IncludeIntegrations: getBool(args, "include_integrations", false),
		IncludeMeta:         getBool(args, "include_meta", false),
	}
	return id, opts, nil
}

func parseSendReplyArgs(args map[string]any) (*gorgias.SendReplyRequest, error) {
	ticketID, err := parseTicketIDArg(args)
	if err != nil {
		return nil, err
	}
	return &gorgias.SendReplyRequest{
		TicketID:      ticketID,
		MessageType:   getString(args, "message_type", gorgias.MessageTypeOutgoing),
		BodyText:      getString(args, "body_text", ""),
		BodyHTML:      getString(args, "body_html", ""),
		SenderEmail:   getString(args, "sender_email", ""),
		ReceiverEmail: getString(args, "receiver_email", ""),
		Subject:       getString(args, "subject", ""),
		SourceAddress: getString(args, "source_address", ""),
	}, nil
}

func parseUpdateTicketArgs(args map[string]any) (int64, *gorgias.TicketUpdate, error) {
	ticketID, err := parseTicketIDArg(args)
	if err != nil {
		return 0, nil, err
	}

	update := &gorgias.TicketUpdate{}
	if s := getString(args, "status", ""); s != "" {
		update.Status = &s
	}
	// An explicit JSON null unassigns; an absent key leaves the assignee
	// untouched.
	if raw, ok := args["assignee_user_id"]; ok {
		if raw == nil {
			var unassign int64
			update.AssigneeUserID = &unassign
		} else {
			id := getInt64(args, "assignee_user_id", 0)
			if id <= 0 {
				return 0, nil, gorgias.NewValidationError("assignee_user_id", "must be a positive integer or null")
			}
			update.AssigneeUserID = &id
		}
	}
	if _, ok := args["tags"]; ok {
		tags := getStringSlice(args, "tags")
		update.Tags = &tags
	}
	if p := getString(args, "priority", ""); p != "" {
		update.Priority = &p
	}
	if s := getString(args, "subject", ""); s != "" {
		update.Subject = &s
	}
	update.Meta = getMap(args, "meta")

	return ticketID, update, nil
}

func parseCreateCustomerArgs(args map[string]any) (*gorgias.CustomerCreateRequest, error) {
	req := &gorgias.CustomerCreateRequest{
		Email:      getString(args, "email", ""),
		FirstName:  getString(args, "firstname", ""),
		LastName:   getString(args, "lastname", ""),
		Name:       getString(args, "name", ""),
		ExternalID: getString(args, "external_id", ""),
		Meta:       getMap(args, "meta"),
	}
	if raw, ok := args["channels"].([]any); ok {
		for _, item := range raw {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, gorgias.NewValidationError("channels", "entries must be {type, address} objects")
			}
			req.Channels = append(req.Channels, gorgias.CustomerChannel{
				Type:    getString(entry, "type", ""),
				Address: getString(entry, "address", ""),
			})
		}
	}
	return req, nil
}

func parseListEventsArgs(args map[string]any) (*gorgias.EventListOptions, error) {
	return &gorgias.EventListOptions{
		ObjectType: getString(args, "object_type", ""),
		ObjectID:   getInt64(args, "object_id", 0),
		Type:       getString(args, "event_type", ""),
		UserID:     getInt64(args, "user_id", 0),
		Limit:      getInt(args, "limit", 0),
		Cursor:     getString(args, "cursor", ""),
	}, nil
}

func parseSearchTicketsArgs(args map[string]any) (*gorgias.TicketSearchOptions, error) {
	query := getString(args, "query", "")
	if query == "" {
		return nil, gorgias.NewValidationError("query", "is required")
	}
	return &gorgias.TicketSearchOptions{
		Query:          query,
		Channel:        getString(args, "channel", ""),
		Status:         getString(args, "status", ""),
		AssigneeUserID: getInt64(args, "assignee_user_id", 0),
		CustomerEmail:  getString(args, "customer_email", ""),
		Tags:           getStringSlice(args, "tags"),
		CreatedAfter:   getString(args, "created_after", ""),
		CreatedBefore:  getString(args, "created_before", ""),
		Limit:          getInt(args, "limit", 0),
		Cursor:         getString(args, "cursor", ""),
	}, nil
}

func parseListIntegrationsArgs(args map[string]any) (*gorgias.IntegrationListOptions, error) {
	return &gorgias.IntegrationListOptions{
		Type:       getString(args, "type", ""),
		ActiveOnly: getBool(args, "active_only", true),
		Limit:      getInt(args, "limit", 0),
	}, nil
}

// extractRequest pairs the extraction options with the output format.
type extractRequest struct {
	Options *extract.Options
	Format  string
}

func parseExtractArgs(args map[string]any) (*extractRequest, error) {
	dateFrom, err := parseDateArg(args, "date_from")
	if err != nil {
		return nil, err
	}
	dateTo, err := parseDateArg(args, "date_to")
	if err != nil {
		return nil, err
	}
	if dateTo != nil {
		// Inclusive upper bound: cover the whole day.
		end := dateTo.Add(24*time.Hour - time.Nanosecond)
		dateTo = &end
	}
	format := getString(args, "format", extract.FormatJSON)
	switch format {
	case extract.FormatJSON, extract.FormatCSV, extract.FormatTable:
	default:
		return nil, gorgias.NewValidationError("format", "must be json, csv or table")
	}

	return &extractRequest{
		Options: &extract.Options{
			DateFrom:            dateFrom,
			DateTo:              dateTo,
			Statuses:            getStringSlice(args, "statuses"),
			IncludeTags:         getBool(args, "include_tags", false),
			IncludeSatisfaction: getBool(args, "include_satisfaction", false),
			Limit:               getInt(args, "limit", 0),
		},
		Format: format,
	}, nil
}
