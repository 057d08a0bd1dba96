// Package extract implements the customer-email extraction: a fan-out over
// the customer collection that reduces each customer's tickets into one
// summary row. It issues many API calls sequentially, staying inside the
// shared rate-limit budget.
package extract

import (
	"context"
	"log"
	"math"
	"sort"
	"time"

	"github.com/gorgias-tools/gorgias-mcp/internal/gorgias"
)

const (
	// DefaultLimit caps how many customers one extraction processes.
	DefaultLimit = 100
	// ticketsPerCustomer bounds the per-customer ticket fetch.
	ticketsPerCustomer = 50
	// customerPageSize is the upper bound for one customer page.
	customerPageSize = 100
)

// API is the slice of the Gorgias client the extractor needs.
type API interface {
	ListCustomers(ctx context.Context, opts *gorgias.CustomerListOptions) (*gorgias.CustomerList, error)
	ListTickets(ctx context.Context, opts *gorgias.TicketListOptions) (*gorgias.TicketList, error)
}

// Options controls one extraction call.
type Options struct {
	// DateFrom and DateTo bound ticket creation time, inclusive on both
	// ends. Nil bounds are not applied.
	DateFrom *time.Time
	DateTo   *time.Time
	// Statuses keeps only tickets whose status is in the set, if any.
	Statuses            []string
	IncludeTags         bool
	IncludeSatisfaction bool
	// Limit caps the number of customers processed (default 100).
	Limit int
}

// CustomerEmailData is one per-customer summary row. It lives for the
// single extraction call that produced it.
type CustomerEmailData struct {
	CustomerID        int64      `json:"customer_id"`
	Email             string     `json:"email"`
	Name              string     `json:"name,omitempty"`
	TicketCount       int        `json:"ticket_count"`
	LastTicketDate    *time.Time `json:"last_ticket_date,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	Status            string     `json:"status"`
	SatisfactionScore *float64   `json:"satisfaction_score,omitempty"`
	TotalMessages     int        `json:"total_messages"`
	Channels          []string   `json:"channels,omitempty"`
}

// Extractor drives the extraction against an API client.
type Extractor struct {
	api   API
	debug bool
}

// New creates an Extractor.
func New(api API, debug bool) *Extractor {
	return &Extractor{api: api, debug: debug}
}

// CustomerEmails pages through customers newest-first and summarizes each
// one's tickets. A customer whose ticket fetch fails is logged and skipped;
// one bad record does not abort the extraction. Output order follows
// processing order and the result holds at most opts.Limit rows.
func (e *Extractor) CustomerEmails(ctx context.Context, opts *Options) ([]CustomerEmailData, error) {
	if opts == nil {
		opts = &Options{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]CustomerEmailData, 0, limit)
	cursor := ""
	processed := 0

	for processed < limit {
		pageSize := limit - processed
		if pageSize > customerPageSize {
			pageSize = customerPageSize
		}

		page, err := e.api.ListCustomers(ctx, &gorgias.CustomerListOptions{
			Limit:          pageSize,
			Cursor:         cursor,
			OrderBy:        "created_datetime",
			OrderDirection: "desc",
		})
		if err != nil {
			return nil, err
		}

		for _, customer := range page.Data {
			if processed >= limit {
				break
			}
			processed++

			row, err := e.summarize(ctx, customer, opts)
			if err != nil {
				log.Printf("extract: skipping customer %d: %v", customer.ID, err)
				continue
			}
			results = append(results, row)
		}

		cursor = page.Meta.NextCursor
		if cursor == "" || len(page.Data) == 0 {
			break
		}
	}

	if e.debug {
		log.Printf("extract: processed %d customers, produced %d rows", processed, len(results))
	}
	return results, nil
}

// summarize fetches one customer's tickets and reduces them.
func (e *Extractor) summarize(ctx context.Context, customer gorgias.Customer, opts *Options) (CustomerEmailData, error) {
	listed, err := e.api.ListTickets(ctx, &gorgias.TicketListOptions{
		CustomerID: customer.ID,
		Limit:      ticketsPerCustomer,
	})
	if err != nil {
		return CustomerEmailData{}, err
	}

	tickets := filterTickets(listed.Data, opts)

	row := CustomerEmailData{
		CustomerID:  customer.ID,
		Email:       customer.Email,
		Name:        displayName(customer),
		TicketCount: len(tickets),
		Status:      "unknown",
	}

	tagSet := map[string]struct{}{}
	channelSet := map[string]struct{}{}
	var newest *gorgias.Ticket
	var scoreSum float64
	var scoreCount int

	for i := range tickets {
		ticket := &tickets[i]
		if newest == nil || ticket.CreatedDatetime.After(newest.CreatedDatetime) {
			newest = ticket
		}
		row.TotalMessages += ticket.MessagesCount
		if ticket.Channel != "" {
			channelSet[ticket.Channel] = struct{}{}
		}
		if opts.IncludeTags {
			for _, tag := range ticket.Tags {
				tagSet[tag.Name] = struct{}{}
			}
		}
		if opts.IncludeSatisfaction && ticket.SatisfactionScore != nil {
			scoreSum += *ticket.SatisfactionScore
			scoreCount++
		}
	}

	if newest != nil {
		created := newest.CreatedDatetime
		row.LastTicketDate = &created
		row.Status = newest.Status
	}
	if scoreCount > 0 {
		mean := math.Round(scoreSum/float64(scoreCount)*100) / 100
		row.SatisfactionScore = &mean
	}
	row.Tags = sortedKeys(tagSet)
	row.Channels = sortedKeys(channelSet)

	return row, nil
}

// filterTickets applies the date range (inclusive) then the status set.
func filterTickets(tickets []gorgias.Ticket, opts *Options) []gorgias.Ticket {
	kept := make([]gorgias.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if opts.DateFrom != nil && ticket.CreatedDatetime.Before(*opts.DateFrom) {
			continue
		}
		if opts.DateTo != nil && ticket.CreatedDatetime.After(*opts.DateTo) {
			continue
		}
		if len(opts.Statuses) > 0 && !containsString(opts.Statuses, ticket.Status) {
			continue
		}
		kept = append(kept, ticket)
	}
	return kept
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func displayName(customer gorgias.Customer) string {
	if customer.Name != "" {
		return customer.Name
	}
	switch {
	case customer.FirstName != "" && customer.LastName != "":
		return customer.FirstName + " " + customer.LastName
	case customer.FirstName != "":
		return customer.FirstName
	default:
		return customer.LastName
	}
}
