package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msr-report/connectors/config"
	"msr-report/domain/ticket"
)

func TestNormalizeColumns_RenamesByAlias(t *testing.T) {
	ds := ticket.Dataset{
		Columns: []string{"RC", "Summary"},
		Records: []ticket.Record{{"RC": "Network", "Summary": "vpn down"}},
	}
	aliases := []config.AliasRule{
		{Canonical: ticket.ColRootCause, Candidates: []string{"Root Cause", "RC"}},
		{Canonical: ticket.ColDescription, Candidates: []string{"Short Description", "Summary"}},
	}
	out, err := NormalizeColumns(ds, aliases)
	require.NoError(t, err)
	assert.Equal(t, []string{ticket.ColRootCause, ticket.ColDescription}, out.Columns)
	assert.Equal(t, "Network", out.Records[0][ticket.ColRootCause])
	assert.Equal(t, "vpn down", out.Records[0][ticket.ColDescription])
}

func TestNormalizeColumns_CaseInsensitiveTrimmed(t *testing.T) {
	ds := ticket.Dataset{
		Columns: []string{"  opened AT "},
		Records: []ticket.Record{{"  opened AT ": "2025-01-01"}},
	}
	aliases := []config.AliasRule{
		{Canonical: ticket.ColOpenedAt, Candidates: []string{"Opened At"}},
	}
	out, err := NormalizeColumns(ds, aliases)
	require.NoError(t, err)
	assert.Equal(t, []string{ticket.ColOpenedAt}, out.Columns)
	assert.Equal(t, "2025-01-01", out.Records[0][ticket.ColOpenedAt])
}

func TestNormalizeColumns_FirstCandidateWins(t *testing.T) {
	ds := ticket.Dataset{
		Columns: []string{"Created", "Opened"},
		Records: []ticket.Record{{"Created": "a", "Opened": "b"}},
	}
	aliases := []config.AliasRule{
		{Canonical: ticket.ColOpenedAt, Candidates: []string{"Opened", "Created"}},
	}
	out, err := NormalizeColumns(ds, aliases)
	require.NoError(t, err)
	// "Opened" is the first candidate, so it becomes canonical; "Created"
	// passes through untouched.
	assert.Equal(t, []string{"Created", ticket.ColOpenedAt}, out.Columns)
	assert.Equal(t, "b", out.Records[0][ticket.ColOpenedAt])
	assert.Equal(t, "a", out.Records[0]["Created"])
}

func TestNormalizeColumns_PassthroughUnmatched(t *testing.T) {
	ds := ticket.Dataset{
		Columns: []string{"Weird Column"},
		Records: []ticket.Record{{"Weird Column": "x"}},
	}
	out, err := NormalizeColumns(ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Weird Column"}, out.Columns)
	assert.Equal(t, "x", out.Records[0]["Weird Column"])
}

func TestNormalizeColumns_Idempotent(t *testing.T) {
	ds := ticket.Dataset{
		Columns: []string{"Type", "RC"},
		Records: []ticket.Record{{"Type": "Incident", "RC": "Network"}},
	}
	aliases := []config.AliasRule{
		{Canonical: ticket.ColType, Candidates: []string{"type"}},
		{Canonical: ticket.ColRootCause, Candidates: []string{"root_cause", "RC"}},
	}
	once, err := NormalizeColumns(ds, aliases)
	require.NoError(t, err)
	twice, err := NormalizeColumns(once, aliases)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeColumns_ConflictingLogicalNames(t *testing.T) {
	ds := ticket.Dataset{Columns: []string{"Date"}}
	aliases := []config.AliasRule{
		{Canonical: ticket.ColOpenedAt, Candidates: []string{"Date"}},
		{Canonical: ticket.ColResolvedAt, Candidates: []string{"date"}},
	}
	_, err := NormalizeColumns(ds, aliases)
	assert.ErrorIs(t, err, ErrColumnConflict)
}

func TestNormalizeColumns_RenameCollision(t *testing.T) {
	// A rename that lands on an already-present column would silently merge
	// two columns; it must fail instead.
	ds := ticket.Dataset{Columns: []string{"root_cause", "RC"}}
	aliases := []config.AliasRule{
		{Canonical: ticket.ColRootCause, Candidates: []string{"RC"}},
	}
	_, err := NormalizeColumns(ds, aliases)
	assert.ErrorIs(t, err, ErrColumnConflict)
}
