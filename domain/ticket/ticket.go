package ticket

import (
	"strings"
	"time"
)

// Canonical column names. Source files use arbitrary headers; the
// normalizer renames them to these via the configured alias table.
const (
	ColTicketID        = "ticket_id"
	ColType            = "type"
	ColPriority        = "priority"
	ColState           = "state"
	ColCategory        = "category"
	ColSubcategory     = "subcategory"
	ColDescription     = "short_description"
	ColRootCause       = "root_cause"
	ColAssignmentGroup = "assignment_group"
	ColAssignee        = "assignee"
	ColOpenedAt        = "opened_at"
	ColResolvedAt      = "resolved_at"
	ColSLABreached     = "sla_breached"
	ColCustomer        = "customer"

	// ColRootCauseFinal is derived during enrichment and never read
	// from the source file.
	ColRootCauseFinal = "RootCauseFinal"
)

// Record is one ticket row keyed by column name. A missing key means the
// column is absent for that row; an empty string is kept as-is and treated
// as blank by consumers.
type Record map[string]string

// Get returns the trimmed value of a column and whether it is non-blank.
func (r Record) Get(col string) (string, bool) {
	v, ok := r[col]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Dataset is an in-memory ticket table: an ordered header plus rows.
type Dataset struct {
	Columns []string
	Records []Record
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// timeLayouts covers RFC3339 exports plus the date styles excelize renders
// for cells formatted as datetimes.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01-02-06 15:04",
	"1/2/06 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTime parses a cell value as a timestamp. Blank or unparsable values
// return nil: an unreadable date means "absent", never an error.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
