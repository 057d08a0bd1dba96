package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorgias-tools/gorgias-mcp/internal/extract"
	"github.com/gorgias-tools/gorgias-mcp/internal/gorgias"
	"github.com/gorgias-tools/gorgias-mcp/internal/metrics"
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "gorgias-mcp"
	ServerVersion   = gorgias.Version
)

// SupportAPI is the slice of the Gorgias client the tool handlers need.
// *gorgias.Client satisfies it; tests substitute fakes.
type SupportAPI interface {
	ListTickets(ctx context.Context, opts *gorgias.TicketListOptions) (*gorgias.TicketList, error)
	GetTicket(ctx context.Context, id int64) (*gorgias.Ticket, error)
	ListTicketMessages(ctx context.Context, ticketID int64, limit int, cursor string) (*gorgias.MessageList, error)
	ListCustomers(ctx context.Context, opts *gorgias.CustomerListOptions) (*gorgias.CustomerList, error)
	GetCustomerDetails(ctx context.Context, id int64, opts *gorgias.CustomerDetailOptions) (*gorgias.CustomerDetails, error)
	SendReply(ctx context.Context, req *gorgias.SendReplyRequest) (*gorgias.Message, error)
	UpdateTicket(ctx context.Context, id int64, update *gorgias.TicketUpdate) (*gorgias.Ticket, error)
	CreateCustomer(ctx context.Context, req *gorgias.CustomerCreateRequest) (*gorgias.Customer, error)
	ListEvents(ctx context.Context, opts *gorgias.EventListOptions) (*gorgias.EventList, error)
	SearchTickets(ctx context.Context, opts *gorgias.TicketSearchOptions) (*gorgias.TicketList, error)
	ListIntegrations(ctx context.Context, opts *gorgias.IntegrationListOptions) (*gorgias.IntegrationList, error)
}

// Server handles MCP protocol messages and dispatches tool calls to the
// Gorgias API client. One Server serves all invocations; it holds no
// per-call state beyond the initialized flag.
type Server struct {
	api         SupportAPI
	extractor   *extract.Extractor
	initialized bool
}

// NewServer creates an MCP server backed by api.
func NewServer(api SupportAPI, debug bool) *Server {
	return &Server{
		api:       api,
		extractor: extract.New(api, debug),
	}
}

// HandleMessage processes one JSON-RPC message and returns the serialized
// response, or nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, msg []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		resp := ErrorResponse(nil, ErrCodeParse, "Parse error: "+err.Error())
		return json.Marshal(resp)
	}

	if req.JSONRPC != "2.0" {
		resp := ErrorResponse(req.ID, ErrCodeInvalidRequest, "Invalid JSON-RPC version")
		return json.Marshal(resp)
	}

	var resp Response
	switch req.Method {
	case "initialize":
		resp = s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil, nil
	case "tools/list":
		resp = SuccessResponse(req.ID, ToolsListResult{Tools: ToolRegistry})
	case "tools/call":
		resp = s.handleToolsCall(ctx, req)
	case "ping":
		resp = SuccessResponse(req.ID, map[string]string{})
	default:
		resp = ErrorResponse(req.ID, ErrCodeMethodNotFound, "Method not found: "+req.Method)
	}

	return json.Marshal(resp)
}

func (s *Server) handleInitialize(req Request) Response {
	var params InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return ErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
		}
	}

	s.initialized = true

	return SuccessResponse(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
	})
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return ErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		metrics.ToolCalls.WithLabelValues(params.Name, "error").Inc()
		return SuccessResponse(req.ID, toolErrorResult(err))
	}

	metrics.ToolCalls.WithLabelValues(params.Name, "ok").Inc()
	return SuccessResponse(req.ID, result)
}

// toolErrorResult renders a failed tool call with a machine-readable code
// alongside the human-readable message.
func toolErrorResult(err error) *ToolCallResult {
	payload, _ := json.MarshalIndent(map[string]any{
		"error": map[string]string{
			"code":    gorgias.ErrorCode(err),
			"message": err.Error(),
		},
	}, "", "  ")
	return &ToolCallResult{
		Content: []ContentBlock{TextContent(string(payload))},
		IsError: true,
	}
}

// jsonResult marshals a payload into a text tool result.
func jsonResult(payload any) (*ToolCallResult, error) {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return TextResult(string(out)), nil
}

func (s *Server) executeTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	if args == nil {
		args = map[string]any{}
	}

	switch name {
	case "list_tickets":
		return s.toolListTickets(ctx, args)
	case "get_ticket":
		return s.toolGetTicket(ctx, args)
	case "list_ticket_messages":
		return s.toolListTicketMessages(ctx, args)
	case "list_customers":
		return s.toolListCustomers(ctx, args)
	case "get_customer":
		return s.toolGetCustomer(ctx, args)
	case "send_reply":
		return s.toolSendReply(ctx, args)
	case "update_ticket":
		return s.toolUpdateTicket(ctx, args)
	case "create_customer":
		return s.toolCreateCustomer(ctx, args)
	case "list_events":
		return s.toolListEvents(ctx, args)
	case "search_tickets":
		return s.toolSearchTickets(ctx, args)
	case "list_integrations":
		return s.toolListIntegrations(ctx, args)
	case "extract_customer_emails":
		return s.toolExtractCustomerEmails(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (s *Server) toolListTickets(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	opts, err := parseListTicketsArgs(args)
	if err != nil {
		return nil, err
	}
	listed, err := s.api.ListTickets(ctx, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(listed)
}

func (s *Server) toolGetTicket(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	id, err := parseTicketIDArg(args)
	if err != nil {
		return nil, err
	}
	ticket, err := s.api.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(ticket)
}

func (s *Server) toolListTicketMessages(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	id, err := parseTicketIDArg(args)
	if err != nil {
		return nil, err
	}
	listed, err := s.api.ListTicketMessages(ctx, id, getInt(args, "limit", 0), getString(args, "cursor", ""))
	if err != nil {
		return nil, err
	}
	return jsonResult(listed)
}

func (s *Server) toolListCustomers(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	opts, err := parseListCustomersArgs(args)
	if err != nil {
		return nil, err
	}
	listed, err := s.api.ListCustomers(ctx, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(listed)
}

func (s *Server) toolGetCustomer(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	id, opts, err := parseGetCustomerArgs(args)
	if err != nil {
		return nil, err
	}
	details, err := s.api.GetCustomerDetails(ctx, id, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(details)
}

func (s *Server) toolSendReply(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	req, err := parseSendReplyArgs(args)
	if err != nil {
		return nil, err
	}
	message, err := s.api.SendReply(ctx, req)
	if err != nil {
		return nil, err
	}
	return jsonResult(message)
}

func (s *Server) toolUpdateTicket(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	id, update, err := parseUpdateTicketArgs(args)
	if err != nil {
		return nil, err
	}
	ticket, err := s.api.UpdateTicket(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return jsonResult(ticket)
}

func (s *Server) toolCreateCustomer(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	req, err := parseCreateCustomerArgs(args)
	if err != nil {
		return nil, err
	}
	customer, err := s.api.CreateCustomer(ctx, req)
	if err != nil {
		return nil, err
	}
	return jsonResult(customer)
}

func (s *Server) toolListEvents(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	opts, err := parseListEventsArgs(args)
	if err != nil {
		return nil, err
	}
	listed, err := s.api.ListEvents(ctx, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(listed)
}

func (s *Server) toolSearchTickets(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	opts, err := parseSearchTicketsArgs(args)
	if err != nil {
		return nil, err
	}
	listed, err := s.api.SearchTickets(ctx, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(listed)
}

func (s *Server) toolListIntegrations(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	opts, err := parseListIntegrationsArgs(args)
	if err != nil {
		return nil, err
	}
	listed, err := s.api.ListIntegrations(ctx, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(listed)
}

func (s *Server) toolExtractCustomerEmails(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	req, err := parseExtractArgs(args)
	if err != nil {
		return nil, err
	}
	rows, err := s.extractor.CustomerEmails(ctx, req.Options)
	if err != nil {
		return nil, err
	}
	rendered, err := extract.Format(req.Format, rows)
	if err != nil {
		return nil, err
	}
	return TextResult(rendered), nil
}
