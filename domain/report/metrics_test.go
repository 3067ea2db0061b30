package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msr-report/domain/ticket"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func hours(h float64) *float64 { return &h }

func TestMTTRByType_AveragesPerType(t *testing.T) {
	e := &Enriched{
		Dataset: ticket.Dataset{
			Columns: []string{ticket.ColType},
			Records: []ticket.Record{
				{ticket.ColType: "Incident"},
				{ticket.ColType: "Incident"},
				{ticket.ColType: "Request"},
				{ticket.ColType: "Incident"}, // unresolved, excluded
			},
		},
		OpenedAt:        make([]*time.Time, 4),
		ResolvedAt:      make([]*time.Time, 4),
		ResolutionHours: []*float64{hours(10), hours(14), hours(48), nil},
	}
	rows := MTTRByType(e)
	require.Len(t, rows, 2)
	assert.Equal(t, "Incident", rows[0].Type)
	assert.InDelta(t, 12.0, rows[0].AvgHours, 1e-9)
	assert.InDelta(t, 0.5, rows[0].AvgDays, 1e-9)
	assert.Equal(t, "Request", rows[1].Type)
	assert.InDelta(t, 48.0, rows[1].AvgHours, 1e-9)
	assert.InDelta(t, 2.0, rows[1].AvgDays, 1e-9)
}

func TestMTTRByType_NoResolvedTickets(t *testing.T) {
	e := &Enriched{
		Dataset: ticket.Dataset{
			Columns: []string{ticket.ColType},
			Records: []ticket.Record{{ticket.ColType: "Incident"}},
		},
		OpenedAt:        make([]*time.Time, 1),
		ResolvedAt:      make([]*time.Time, 1),
		ResolutionHours: make([]*float64, 1),
	}
	// No computable durations means no data, not a zero or NaN average.
	assert.Empty(t, MTTRByType(e))
}

func TestMonthlyTrends(t *testing.T) {
	e := &Enriched{
		Dataset: ticket.Dataset{
			Records: make([]ticket.Record, 4),
		},
		OpenedAt: []*time.Time{
			ts("2025-01-05 10:00:00"),
			ts("2025-01-20 10:00:00"),
			ts("2025-02-01 10:00:00"),
			nil,
		},
		ResolvedAt: []*time.Time{
			ts("2025-02-06 10:00:00"),
			nil,
			nil,
			nil,
		},
		ResolutionHours: make([]*float64, 4),
	}

	opened := MonthlyOpened(e)
	assert.Equal(t, []TrendRow{{"2025-01", 2}, {"2025-02", 1}}, opened)

	resolved := MonthlyResolved(e)
	assert.Equal(t, []TrendRow{{"2025-02", 1}}, resolved)
}
