package report

import (
	"time"

	lo "github.com/samber/lo"

	"msr-report/domain/ticket"
)

// Filter is a conjunction of value-set and inclusive date-range constraints.
// An empty value set or a nil bound means "no constraint".
type Filter struct {
	Types      []string
	Priorities []string
	States     []string

	OpenedFrom *time.Time
	OpenedTo   *time.Time

	ResolvedFrom *time.Time
	ResolvedTo   *time.Time
}

// Apply returns the records satisfying every constraint. Records without a
// resolved timestamp always pass the resolved-range clause: an open ticket
// is never hidden by a resolution filter.
func (f Filter) Apply(e *Enriched) *Enriched {
	types := valueSet(f.Types)
	priorities := valueSet(f.Priorities)
	states := valueSet(f.States)

	var idx []int
	for i, rec := range e.Dataset.Records {
		if !inSet(rec, ticket.ColType, types) ||
			!inSet(rec, ticket.ColPriority, priorities) ||
			!inSet(rec, ticket.ColState, states) {
			continue
		}
		if (f.OpenedFrom != nil || f.OpenedTo != nil) && !inRange(e.OpenedAt[i], f.OpenedFrom, f.OpenedTo) {
			continue
		}
		if (f.ResolvedFrom != nil || f.ResolvedTo != nil) && e.ResolvedAt[i] != nil && !inRange(e.ResolvedAt[i], f.ResolvedFrom, f.ResolvedTo) {
			continue
		}
		idx = append(idx, i)
	}
	return e.subset(idx)
}

func valueSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	return lo.SliceToMap(values, func(s string) (string, struct{}) { return s, struct{}{} })
}

func inSet(rec ticket.Record, col string, set map[string]struct{}) bool {
	if set == nil {
		return true
	}
	v, _ := rec.Get(col)
	_, ok := set[v]
	return ok
}

func inRange(t *time.Time, from, to *time.Time) bool {
	if t == nil {
		return false
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
