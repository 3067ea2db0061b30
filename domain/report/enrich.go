package report

import (
	"log/slog"
	"strings"
	"time"
	"unicode"

	"msr-report/connectors/config"
	"msr-report/domain/ticket"
)

// Enriched is a dataset after derivation: the RootCauseFinal column is set
// on every record, and timestamps/durations are parsed once per load. The
// typed slices run parallel to Dataset.Records.
type Enriched struct {
	Dataset         ticket.Dataset
	OpenedAt        []*time.Time
	ResolvedAt      []*time.Time
	ResolutionHours []*float64
}

// Total returns the number of records.
func (e *Enriched) Total() int { return len(e.Dataset.Records) }

// Enrich computes all derived fields in one pass: final root cause,
// opened/resolved timestamps, and resolution duration in hours. Duration is
// absent when either timestamp is missing or unparsable, or when the
// resolved timestamp precedes the opened one.
func Enrich(ds ticket.Dataset, cfg *config.Config) *Enriched {
	rv := NewResolver(cfg.Rules)
	e := &Enriched{
		Dataset:         ds,
		OpenedAt:        make([]*time.Time, len(ds.Records)),
		ResolvedAt:      make([]*time.Time, len(ds.Records)),
		ResolutionHours: make([]*float64, len(ds.Records)),
	}
	for i, rec := range ds.Records {
		if v, ok := rec.Get(ticket.ColType); ok {
			rec[ticket.ColType] = titleCase(v)
		}
		rec[ticket.ColRootCauseFinal] = rv.Resolve(rec)

		if v, ok := rec.Get(ticket.ColOpenedAt); ok {
			e.OpenedAt[i] = ticket.ParseTime(v)
		}
		if v, ok := rec.Get(ticket.ColResolvedAt); ok {
			e.ResolvedAt[i] = ticket.ParseTime(v)
		}
		if o, r := e.OpenedAt[i], e.ResolvedAt[i]; o != nil && r != nil && !r.Before(*o) {
			h := r.Sub(*o).Hours()
			e.ResolutionHours[i] = &h
		}
	}
	if !e.Dataset.HasColumn(ticket.ColRootCauseFinal) {
		e.Dataset.Columns = append(e.Dataset.Columns, ticket.ColRootCauseFinal)
	}
	slog.Info("phase.enrich.done", "records", e.Total())
	return e
}

// subset builds a new Enriched holding only the records at idx, keeping the
// parallel slices aligned.
func (e *Enriched) subset(idx []int) *Enriched {
	out := &Enriched{
		Dataset: ticket.Dataset{Columns: e.Dataset.Columns},
	}
	for _, i := range idx {
		out.Dataset.Records = append(out.Dataset.Records, e.Dataset.Records[i])
		out.OpenedAt = append(out.OpenedAt, e.OpenedAt[i])
		out.ResolvedAt = append(out.ResolvedAt, e.ResolvedAt[i])
		out.ResolutionHours = append(out.ResolutionHours, e.ResolutionHours[i])
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
