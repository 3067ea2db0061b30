package report

import (
	"math"
	"sort"
	"time"

	"msr-report/domain/ticket"
)

// MTTRRow is the mean resolution time for one ticket type.
type MTTRRow struct {
	Type     string  `json:"type"`
	AvgHours float64 `json:"avg_hours"`
	AvgDays  float64 `json:"avg_days"`
}

// MTTRByType averages resolution hours per ticket type over the records
// with a computable duration. An empty result means no resolved tickets;
// callers show "no data" instead of a zero or NaN figure.
func MTTRByType(e *Enriched) []MTTRRow {
	sums := map[string]float64{}
	counts := map[string]int{}
	for i, rec := range e.Dataset.Records {
		h := e.ResolutionHours[i]
		if h == nil {
			continue
		}
		typ, ok := rec.Get(ticket.ColType)
		if !ok {
			typ = BlankBucket
		}
		sums[typ] += *h
		counts[typ]++
	}
	rows := make([]MTTRRow, 0, len(sums))
	for typ, sum := range sums {
		avg := sum / float64(counts[typ])
		rows = append(rows, MTTRRow{
			Type:     typ,
			AvgHours: avg,
			AvgDays:  math.Round(avg/24*100) / 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
	return rows
}

// TrendRow is a monthly ticket count.
type TrendRow struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// MonthlyOpened counts tickets by opening month (YYYY-MM), ascending.
func MonthlyOpened(e *Enriched) []TrendRow { return monthlyTrend(e.OpenedAt) }

// MonthlyResolved counts tickets by resolution month (YYYY-MM), ascending.
// Unresolved tickets contribute nothing.
func MonthlyResolved(e *Enriched) []TrendRow { return monthlyTrend(e.ResolvedAt) }

func monthlyTrend(stamps []*time.Time) []TrendRow {
	counts := map[string]int{}
	for _, t := range stamps {
		if t == nil {
			continue
		}
		counts[t.Format("2006-01")]++
	}
	rows := make([]TrendRow, 0, len(counts))
	for month, n := range counts {
		rows = append(rows, TrendRow{Month: month, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}
