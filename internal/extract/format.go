package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Output formats for extraction results.
const (
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatTable = "table"
)

const dateLayout = "2006-01-02"

// Format renders rows in the named format.
func Format(format string, rows []CustomerEmailData) (string, error) {
	switch format {
	case FormatJSON, "":
		return formatJSON(rows)
	case FormatCSV:
		return formatCSV(rows)
	case FormatTable:
		return formatTable(rows), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func formatJSON(rows []CustomerEmailData) (string, error) {
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func formatCSV(rows []CustomerEmailData) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"customer_id", "email", "name", "ticket_count", "last_ticket_date",
		"tags", "status", "satisfaction_score", "total_messages", "channels",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.CustomerID, 10),
			row.Email,
			row.Name,
			strconv.Itoa(row.TicketCount),
			formatDate(row.LastTicketDate),
			strings.Join(row.Tags, ";"),
			row.Status,
			formatScore(row.SatisfactionScore),
			strconv.Itoa(row.TotalMessages),
			strings.Join(row.Channels, ";"),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// formatTable renders a fixed-width view with the key columns only.
func formatTable(rows []CustomerEmailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-35s %-25s %-8s %-12s %-10s\n",
		"ID", "Email", "Name", "Tickets", "Last Ticket", "Status")
	b.WriteString(strings.Repeat("-", 104) + "\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-10d %-35s %-25s %-8d %-12s %-10s\n",
			row.CustomerID,
			clip(row.Email, 35),
			clip(row.Name, 25),
			row.TicketCount,
			formatDate(row.LastTicketDate),
			row.Status)
	}
	return b.String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', 2, 64)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
