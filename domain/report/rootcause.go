package report

import (
	"strings"

	"msr-report/connectors/config"
	"msr-report/domain/ticket"
)

// Unspecified is the sentinel root cause when nothing explicit is present
// and no inference rule matches.
const Unspecified = "Unspecified"

// Resolver decides the final root cause of a record: the explicit value if
// present, else the first matching keyword rule, else Unspecified.
type Resolver struct {
	rules []config.RootCauseRule
}

func NewResolver(rules []config.RootCauseRule) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve is pure and total: it never fails and always returns a non-empty
// label. An explicit root_cause value is returned verbatim (trimmed),
// regardless of what the rules would infer.
func (rv *Resolver) Resolve(rec ticket.Record) string {
	if v, ok := rec.Get(ticket.ColRootCause); ok {
		return v
	}
	if desc, ok := rec.Get(ticket.ColDescription); ok {
		if label, ok := rv.Infer(desc); ok {
			return label
		}
	}
	return Unspecified
}

// Infer scans the description against the rules in definition order and
// returns the first label with a case-insensitive substring match.
func (rv *Resolver) Infer(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range rv.rules {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(lower, kw) {
				return rule.Label, true
			}
		}
	}
	return "", false
}
