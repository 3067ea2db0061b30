package report

import (
	"errors"
	"fmt"
	"strings"

	"msr-report/connectors/config"
	"msr-report/domain/ticket"
)

// ErrColumnConflict is returned when two logical names resolve to the same
// source column, or a rename would collide with an existing column. The
// alternative is silently dropping data, so this fails loudly instead.
var ErrColumnConflict = errors.New("column conflict")

// NormalizeColumns renames source columns to canonical logical names using
// the alias table. Matching is case-insensitive on trimmed headers; for each
// logical name the candidates are tried in order and the first hit wins.
// Columns with no matching alias pass through under their original name.
// Normalizing an already-canonical dataset is a no-op.
func NormalizeColumns(ds ticket.Dataset, aliases []config.AliasRule) (ticket.Dataset, error) {
	bySource := map[string]string{}
	for _, c := range ds.Columns {
		bySource[strings.ToLower(strings.TrimSpace(c))] = c
	}

	rename := map[string]string{} // source header -> canonical name
	for _, a := range aliases {
		for _, cand := range a.Candidates {
			src, ok := bySource[strings.ToLower(strings.TrimSpace(cand))]
			if !ok {
				continue
			}
			if prev, taken := rename[src]; taken && prev != a.Canonical {
				return ticket.Dataset{}, fmt.Errorf("%w: source column %q matches both %q and %q", ErrColumnConflict, src, prev, a.Canonical)
			}
			rename[src] = a.Canonical
			break
		}
	}

	out := ticket.Dataset{Columns: make([]string, 0, len(ds.Columns))}
	seen := map[string]string{}
	for _, c := range ds.Columns {
		name := c
		if n, ok := rename[c]; ok {
			name = n
		}
		if prev, dup := seen[name]; dup {
			return ticket.Dataset{}, fmt.Errorf("%w: columns %q and %q both normalize to %q", ErrColumnConflict, prev, c, name)
		}
		seen[name] = c
		out.Columns = append(out.Columns, name)
	}

	out.Records = make([]ticket.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		nr := make(ticket.Record, len(r))
		for k, v := range r {
			if n, ok := rename[k]; ok {
				nr[n] = v
			} else {
				nr[k] = v
			}
		}
		out.Records = append(out.Records, nr)
	}
	return out, nil
}
