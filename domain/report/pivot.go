package report

import (
	"sort"

	lo "github.com/samber/lo"

	"msr-report/domain/ticket"
)

// BlankBucket is the pivot bucket for records where the grouped column is
// missing or blank.
const BlankBucket = "(blank)"

// WantedPivots is the fixed set of columns summarized in the report.
var WantedPivots = []string{
	ticket.ColType,
	ticket.ColPriority,
	ticket.ColState,
	ticket.ColCategory,
	ticket.ColSubcategory,
	ticket.ColRootCauseFinal,
	ticket.ColAssignmentGroup,
	ticket.ColCustomer,
	ticket.ColSLABreached,
}

type PivotRow struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Pivot is a frequency-count summary of one column.
type Pivot struct {
	Column string     `json:"column"`
	Rows   []PivotRow `json:"rows"`
}

// Empty reports whether the pivot has no buckets.
func (p Pivot) Empty() bool { return len(p.Rows) == 0 }

// BuildPivot groups records by the distinct values of column, counting
// blank/missing values under BlankBucket. Rows come back ordered by count
// descending, value ascending on ties. A column absent from the dataset
// yields an empty pivot rather than an error.
func BuildPivot(e *Enriched, column string) Pivot {
	if !e.Dataset.HasColumn(column) {
		return Pivot{Column: column}
	}
	groups := lo.GroupBy(e.Dataset.Records, func(r ticket.Record) string {
		v, ok := r.Get(column)
		if !ok {
			return BlankBucket
		}
		return v
	})
	rows := make([]PivotRow, 0, len(groups))
	for value, recs := range groups {
		rows = append(rows, PivotRow{Value: value, Count: len(recs)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Value < rows[j].Value
	})
	return Pivot{Column: column, Rows: rows}
}

// BuildAll builds the report's pivot set in fixed order.
func BuildAll(e *Enriched) []Pivot {
	return lo.Map(WantedPivots, func(col string, _ int) Pivot {
		return BuildPivot(e, col)
	})
}
