package gorgias

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client pointed at srv with retries disabled so
// classification tests see exactly one request.
func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(&Config{
		Domain:         "acme",
		Username:       "agent@acme.com",
		APIKey:         "test-key",
		RetryAttempts:  1,
		RetryBaseDelay: time.Millisecond,
	})
	c.SetTransport(srv.URL)
	return c
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestBaseURLResolution(t *testing.T) {
	c := NewClient(&Config{Domain: "acme", Username: "u", APIKey: "k"})
	assert.Equal(t, "https://acme.gorgias.com/api", c.BaseURL())

	c = NewClient(&Config{Domain: "acme.gorgias.com", Username: "u", APIKey: "k"})
	assert.Equal(t, "https://acme.gorgias.com/api", c.BaseURL())
}

func TestBasicAuthSent(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		jsonHandler(http.StatusOK, `{"data":[],"meta":{}}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.ListTickets(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "agent@acme.com", gotUser)
	assert.Equal(t, "test-key", gotPass)
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(error) bool
		code   string
	}{
		{"unauthorized", http.StatusUnauthorized, IsUnauthorized, CodeUnauthorized},
		{"forbidden", http.StatusForbidden, IsForbidden, CodeForbidden},
		{"not found", http.StatusNotFound, IsNotFound, CodeNotFound},
		{"rate limited", http.StatusTooManyRequests, IsRateLimited, CodeRateLimited},
		{"server error", http.StatusServiceUnavailable, IsNetwork, CodeNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(tc.status, `{"error":"nope"}`))
			defer srv.Close()

			c := newTestClient(srv)
			_, err := c.GetTicket(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, tc.check(err))
			assert.Equal(t, tc.code, ErrorCode(err))
		})
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			jsonHandler(http.StatusBadGateway, `{}`)(w, r)
			return
		}
		jsonHandler(http.StatusOK, `{"id":1,"status":"open","created_datetime":"2024-01-01T00:00:00Z"}`)(w, r)
	}))
	defer srv.Close()

	c := NewClient(&Config{
		Domain:         "acme",
		Username:       "u",
		APIKey:         "k",
		RetryAttempts:  2,
		RetryBaseDelay: time.Millisecond,
	})
	c.SetTransport(srv.URL)

	ticket, err := c.GetTicket(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, ticket.ID)
	assert.EqualValues(t, 2, calls.Load())
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		jsonHandler(http.StatusNotFound, `{}`)(w, r)
	}))
	defer srv.Close()

	c := NewClient(&Config{
		Domain:         "acme",
		Username:       "u",
		APIKey:         "k",
		RetryAttempts:  3,
		RetryBaseDelay: time.Millisecond,
	})
	c.SetTransport(srv.URL)

	_, err := c.GetTicket(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualValues(t, 1, calls.Load())
}

func TestListTicketsQuerySerialization(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		jsonHandler(http.StatusOK, `{"data":[],"meta":{}}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.ListTickets(context.Background(), &TicketListOptions{
		CustomerID:     7,
		Status:         "open",
		Tags:           []string{"vip", "billing"},
		Limit:          25,
		OrderBy:        "created_datetime",
		OrderDirection: "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"7"}, gotQuery["customer_id"])
	assert.Equal(t, []string{"open"}, gotQuery["status"])
	assert.Equal(t, []string{"vip,billing"}, gotQuery["tags"])
	assert.Equal(t, []string{"25"}, gotQuery["limit"])
	assert.Equal(t, []string{"created_datetime:asc"}, gotQuery["order_by"])
}

func TestOrderDirectionDefaultsToDesc(t *testing.T) {
	assert.Equal(t, "created_datetime:desc", orderParam("created_datetime", ""))
	assert.Equal(t, "", orderParam("", "asc"))
}

func TestListLimitClamping(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0))
	assert.Equal(t, 50, clampLimit(-5))
	assert.Equal(t, 100, clampLimit(250))
	assert.Equal(t, 25, clampLimit(25))
}

func TestSendReplyValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		jsonHandler(http.StatusOK, `{}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.SendReply(context.Background(), &SendReplyRequest{
		TicketID:    1,
		MessageType: MessageTypeOutgoing,
		BodyText:    "hello",
		SenderEmail: "agent@acme.com",
		// ReceiverEmail deliberately missing
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "receiver_email")
	assert.Zero(t, calls.Load())
}

func TestSendReplyInternalNotePayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		jsonHandler(http.StatusCreated, `{"id":10,"ticket_id":1,"body_text":"note","created_datetime":"2024-01-01T00:00:00Z"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	msg, err := c.SendReply(context.Background(), &SendReplyRequest{
		TicketID:    1,
		MessageType: MessageTypeInternalNote,
		BodyText:    "note",
		SenderEmail: "agent@acme.com",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, msg.ID)

	assert.Equal(t, true, got["from_agent"])
	assert.Equal(t, "internal-note", got["channel"])
	assert.Equal(t, "api", got["via"])
	assert.Equal(t, "note", got["body_html"], "body_html defaults to body_text")
	_, hasReceiver := got["receiver"]
	assert.False(t, hasReceiver)
}

func TestCreateCustomerValidatesEmailBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		jsonHandler(http.StatusOK, `{}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.CreateCustomer(context.Background(), &CustomerCreateRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, calls.Load())
}

func TestUpdateTicketRequiresFields(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{}`))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.UpdateTicket(context.Background(), 1, &TicketUpdate{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateTicketUnassignSendsNull(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		jsonHandler(http.StatusOK, `{"id":1,"status":"open","created_datetime":"2024-01-01T00:00:00Z"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	var unassign int64
	_, err := c.UpdateTicket(context.Background(), 1, &TicketUpdate{AssigneeUserID: &unassign})
	require.NoError(t, err)

	val, present := got["assignee_user"]
	assert.True(t, present)
	assert.Nil(t, val)
}

func TestSearchTicketsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/tickets":
			jsonHandler(http.StatusNotFound, `{}`)(w, r)
		case "/tickets":
			jsonHandler(http.StatusOK, `{"data":[
				{"id":1,"status":"open","subject":"Refund request","customer":{"email":"a@x.com"},"created_datetime":"2024-01-01T00:00:00Z"},
				{"id":2,"status":"closed","subject":"Refund request","customer":{"email":"b@x.com"},"created_datetime":"2024-01-02T00:00:00Z"},
				{"id":3,"status":"open","subject":"Shipping delay","customer":{"email":"c@x.com"},"created_datetime":"2024-01-03T00:00:00Z"}
			],"meta":{}}`)(w, r)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	result, err := c.SearchTickets(context.Background(), &TicketSearchOptions{
		Query:  "refund",
		Status: "open",
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.EqualValues(t, 1, result.Data[0].ID)
}

func TestSearchTicketsDoesNotFallBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/tickets", r.URL.Path)
		jsonHandler(http.StatusInternalServerError, `{}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.SearchTickets(context.Background(), &TicketSearchOptions{Query: "refund"})
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestListEventsFallbackSynthesizesFromTickets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events":
			jsonHandler(http.StatusNotFound, `{}`)(w, r)
		case "/tickets":
			jsonHandler(http.StatusOK, `{"data":[
				{"id":11,"status":"open","channel":"email","subject":"Hello","assignee_user":{"id":5,"email":"agent@acme.com"},"created_datetime":"2024-01-01T00:00:00Z","updated_datetime":"2024-02-01T00:00:00Z"},
				{"id":12,"status":"closed","channel":"chat","subject":"Bye","created_datetime":"2024-01-05T00:00:00Z"}
			],"meta":{}}`)(w, r)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	result, err := c.ListEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Data, 2)

	first := result.Data[0]
	assert.Equal(t, EventTypeTicketActivity, first.Type)
	assert.Equal(t, "ticket", first.ObjectType)
	assert.EqualValues(t, 11, first.ObjectID)
	require.NotNil(t, first.User)
	assert.EqualValues(t, 5, first.User.ID)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first.CreatedDatetime)
	assert.Equal(t, "Hello", first.Data["subject"])
}

func TestListEventsFallbackNonTicketObjectType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/events", r.URL.Path)
		jsonHandler(http.StatusNotFound, `{}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	result, err := c.ListEvents(context.Background(), &EventListOptions{ObjectType: "customer"})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
}

func TestGetCustomerDetailsExpansions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/customers/3":
			jsonHandler(http.StatusOK, `{"id":3,"email":"c@x.com","channels":[{"type":"email","address":"c@x.com"}],"meta":{"vip":true},"created_datetime":"2024-01-01T00:00:00Z"}`)(w, r)
		case "/integrations":
			jsonHandler(http.StatusOK, `{"data":[{"id":1,"name":"Support inbox","type":"email","enabled":true}],"meta":{}}`)(w, r)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	details, err := c.GetCustomerDetails(context.Background(), 3, &CustomerDetailOptions{
		IncludeChannels:     false,
		IncludeIntegrations: true,
		IncludeMeta:         false,
	})
	require.NoError(t, err)

	assert.Nil(t, details.Customer.Channels)
	assert.Nil(t, details.Customer.Meta)
	require.Len(t, details.Integrations, 1)
	assert.Equal(t, "Support inbox", details.Integrations[0].Name)
}

func TestListIntegrationsActiveOnly(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{"data":[
		{"id":1,"name":"Inbox","type":"email","enabled":true},
		{"id":2,"name":"Old chat","type":"chat","enabled":false}
	],"meta":{}}`))
	defer srv.Close()

	c := newTestClient(srv)
	result, err := c.ListIntegrations(context.Background(), &IntegrationListOptions{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.EqualValues(t, 1, result.Data[0].ID)
}

func TestErrorDetailsNeverContainCredentials(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusUnauthorized, `{"error":"bad credentials"}`))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.GetTicket(context.Background(), 1)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "test-key")
	assert.NotContains(t, err.Error(), "agent@acme.com")
}
