package mcp

// ToolRegistry lists the tools this server exposes. Argument names and
// types here are the contract consuming assistants are given; changing
// them breaks existing integrations.
var ToolRegistry = []Tool{
	{
		Name:        "list_tickets",
		Description: "List helpdesk tickets with optional filters. Returns one page plus a cursor for the next page.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"customer_id": {
					Type:        "integer",
					Description: "Filter by customer ID",
				},
				"status": {
					Type:        "string",
					Description: "Filter by ticket status (e.g. open, closed)",
				},
				"channel": {
					Type:        "string",
					Description: "Filter by channel (e.g. email, chat, phone)",
				},
				"tags": {
					Type:        "array",
					Description: "Filter by tag names",
					Items:       &Property{Type: "string"},
				},
				"limit": {
					Type:        "integer",
					Description: "Page size (default 50, max 100)",
					Default:     50,
				},
				"cursor": {
					Type:        "string",
					Description: "Pagination cursor from a previous page",
				},
				"order_by": {
					Type:        "string",
					Description: "Field to order by (e.g. created_datetime)",
				},
				"order_direction": {
					Type:        "string",
					Description: "Order direction (default desc)",
					Enum:        []string{"asc", "desc"},
					Default:     "desc",
				},
			},
		},
	},
	{
		Name:        "get_ticket",
		Description: "Get a single ticket by ID.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID to retrieve",
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "list_ticket_messages",
		Description: "List the messages of a ticket conversation.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket whose messages to list",
				},
				"limit": {
					Type:        "integer",
					Description: "Page size (default 50, max 100)",
					Default:     50,
				},
				"cursor": {
					Type:        "string",
					Description: "Pagination cursor from a previous page",
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "list_customers",
		Description: "List customers with optional filters.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"email": {
					Type:        "string",
					Description: "Filter by exact email address",
				},
				"external_id": {
					Type:        "string",
					Description: "Filter by external ID",
				},
				"limit": {
					Type:        "integer",
					Description: "Page size (default 50, max 100)",
					Default:     50,
				},
				"cursor": {
					Type:        "string",
					Description: "Pagination cursor from a previous page",
				},
				"order_by": {
					Type:        "string",
					Description: "Field to order by (e.g. created_datetime)",
				},
				"order_direction": {
					Type:        "string",
					Description: "Order direction (default desc)",
					Enum:        []string{"asc", "desc"},
					Default:     "desc",
				},
			},
		},
	},
	{
		Name:        "get_customer",
		Description: "Get a customer by ID, optionally expanding channels, integrations and metadata.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"customer_id": {
					Type:        "integer",
					Description: "The customer ID to retrieve",
				},
				"include_channels": {
					Type:        "boolean",
					Description: "Include the customer's contact channels (default true)",
					Default:     true,
				},
				"include_integrations": {
					Type:        "boolean",
					Description: "Include the account's active integrations (default false)",
					Default:     false,
				},
				"include_meta": {
					Type:        "boolean",
					Description: "Include free-form customer metadata (default false)",
					Default:     false,
				},
			},
			Required: []string{"customer_id"},
		},
	},
	{
		Name:        "send_reply",
		Description: "Add a message to a ticket: an outgoing email reply, an internal note, or a recorded incoming message.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket to reply on",
				},
				"message_type": {
					Type:        "string",
					Description: "Kind of message to create",
					Enum:        []string{"outgoing", "internal-note", "incoming"},
					Default:     "outgoing",
				},
				"body_text": {
					Type:        "string",
					Description: "Plain-text message body",
				},
				"body_html": {
					Type:        "string",
					Description: "HTML message body (defaults to the plain text)",
				},
				"sender_email": {
					Type:        "string",
					Description: "Email address of the sender (the agent, or the customer for incoming messages)",
				},
				"receiver_email": {
					Type:        "string",
					Description: "Recipient email address (required for outgoing messages)",
				},
				"subject": {
					Type:        "string",
					Description: "Message subject",
				},
				"source_address": {
					Type:        "string",
					Description: "Override for the integration's from address on outgoing messages",
				},
			},
			Required: []string{"ticket_id", "body_text", "sender_email"},
		},
	},
	{
		Name:        "update_ticket",
		Description: "Update ticket fields. Only the fields provided are changed; tags are replaced as a whole set.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID to update",
				},
				"status": {
					Type:        "string",
					Description: "New status (e.g. open, closed)",
				},
				"assignee_user_id": {
					Type:        "integer",
					Description: "Agent user ID to assign; pass null to unassign",
				},
				"tags": {
					Type:        "array",
					Description: "Replacement tag set",
					Items:       &Property{Type: "string"},
				},
				"priority": {
					Type:        "string",
					Description: "New priority",
				},
				"subject": {
					Type:        "string",
					Description: "New subject",
				},
				"meta": {
					Type:        "object",
					Description: "Metadata entries to set",
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "create_customer",
		Description: "Create a customer. The email must be a valid address.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"email": {
					Type:        "string",
					Description: "Customer email address",
				},
				"firstname": {
					Type:        "string",
					Description: "First name",
				},
				"lastname": {
					Type:        "string",
					Description: "Last name",
				},
				"name": {
					Type:        "string",
					Description: "Display name",
				},
				"external_id": {
					Type:        "string",
					Description: "ID of the customer in an external system",
				},
				"channels": {
					Type:        "array",
					Description: "Contact channels as {type, address} objects",
					Items:       &Property{Type: "object"},
				},
				"meta": {
					Type:        "object",
					Description: "Free-form metadata",
				},
			},
			Required: []string{"email"},
		},
	},
	{
		Name:        "list_events",
		Description: "List activity-feed events. Falls back to ticket-derived events when the account has no event feed.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"object_type": {
					Type:        "string",
					Description: "Filter by object type (e.g. ticket)",
				},
				"object_id": {
					Type:        "integer",
					Description: "Filter by object ID",
				},
				"event_type": {
					Type:        "string",
					Description: "Filter by event type",
				},
				"user_id": {
					Type:        "integer",
					Description: "Filter by acting user ID",
				},
				"limit": {
					Type:        "integer",
					Description: "Page size (default 50, max 100)",
					Default:     50,
				},
				"cursor": {
					Type:        "string",
					Description: "Pagination cursor from a previous page",
				},
			},
		},
	},
	{
		Name:        "search_tickets",
		Description: "Search tickets by text query with optional filters. Falls back to filtered listing when search is unavailable.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {
					Type:        "string",
					Description: "Search query string",
				},
				"channel": {
					Type:        "string",
					Description: "Filter by channel",
				},
				"status": {
					Type:        "string",
					Description: "Filter by status",
				},
				"assignee_user_id": {
					Type:        "integer",
					Description: "Filter by assigned agent user ID",
				},
				"customer_email": {
					Type:        "string",
					Description: "Filter by customer email",
				},
				"tags": {
					Type:        "array",
					Description: "Filter by tag names",
					Items:       &Property{Type: "string"},
				},
				"created_after": {
					Type:        "string",
					Description: "Only tickets created on or after this date (YYYY-MM-DD)",
				},
				"created_before": {
					Type:        "string",
					Description: "Only tickets created on or before this date (YYYY-MM-DD)",
				},
				"limit": {
					Type:        "integer",
					Description: "Page size (default 50, max 100)",
					Default:     50,
				},
				"cursor": {
					Type:        "string",
					Description: "Pagination cursor from a previous page",
				},
			},
			Required: []string{"query"},
		},
	},
	{
		Name:        "list_integrations",
		Description: "List the account's channel integrations (email, chat, social).",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"type": {
					Type:        "string",
					Description: "Filter by integration type",
				},
				"active_only": {
					Type:        "boolean",
					Description: "Only enabled integrations (default true)",
					Default:     true,
				},
				"limit": {
					Type:        "integer",
					Description: "Page size (default 50, max 100)",
					Default:     50,
				},
			},
		},
	},
	{
		Name:        "extract_customer_emails",
		Description: "Summarize customers and their tickets: per-customer ticket counts, last ticket date, tags, satisfaction average, message totals and channels.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"date_from": {
					Type:        "string",
					Description: "Only count tickets created on or after this date (YYYY-MM-DD)",
				},
				"date_to": {
					Type:        "string",
					Description: "Only count tickets created on or before this date (YYYY-MM-DD)",
				},
				"statuses": {
					Type:        "array",
					Description: "Only count tickets with these statuses",
					Items:       &Property{Type: "string"},
				},
				"include_tags": {
					Type:        "boolean",
					Description: "Collect the union of ticket tags per customer (default false)",
					Default:     false,
				},
				"include_satisfaction": {
					Type:        "boolean",
					Description: "Compute the average satisfaction score per customer (default false)",
					Default:     false,
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum customers to process (default 100)",
					Default:     100,
				},
				"format": {
					Type:        "string",
					Description: "Output format",
					Enum:        []string{"json", "csv", "table"},
					Default:     "json",
				},
			},
		},
	},
}
