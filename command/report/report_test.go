package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"msr-report/connectors/config"
	"msr-report/connectors/excel"
	"msr-report/domain/ticket"
)

const testYAML = `
column_aliases:
  ticket_id: ["Number"]
  type: ["Type"]
  priority: ["Priority"]
  short_description: ["Description"]
  root_cause: ["Root Cause", "RC"]
  opened_at: ["Opened"]
  resolved_at: ["Resolved"]
root_cause_rules:
  Storage: ["disk full"]
output:
  filename: MSR_Summary.xlsx
  sheets: [Type, Priority, RootCause]
  add_charts: false
`

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tracker.xlsx")
	ds := ticket.Dataset{
		Columns: []string{"Number", "Type", "Priority", "Opened", "Resolved", "Description", "RC"},
		Records: []ticket.Record{
			{"Number": "T1", "Type": "incident", "Priority": "High", "Opened": "2025-01-01 08:00:00", "Resolved": "2025-01-02 08:00:00", "Description": "site down", "RC": "Network"},
			{"Number": "T2", "Type": "incident", "Priority": "Low", "Opened": "2025-01-03 08:00:00", "Description": "disk full on db host"},
			{"Number": "T3", "Type": "request", "Priority": "High", "Opened": "2025-01-04 08:00:00"},
		},
	}
	require.NoError(t, excel.WriteRaw(path, ds))
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testYAML), 0o644))
	input := writeInput(t, dir)
	outdir := filepath.Join(dir, "out")

	err := Run([]string{"-input", input, "-outdir", outdir, "-config", cfgPath})
	require.NoError(t, err)

	outPath := filepath.Join(outdir, "MSR_Summary.xlsx")
	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Overview", "Type", "Priority", "RootCause", "Details"}, f.GetSheetList())

	total, err := f.GetCellValue("Overview", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	// Root causes: explicit, inferred, sentinel. Counts tie at 1 each, so
	// order falls back to value ascending.
	var causes []string
	for _, cell := range []string{"A2", "A3", "A4"} {
		v, err := f.GetCellValue("RootCause", cell)
		require.NoError(t, err)
		causes = append(causes, v)
	}
	assert.Equal(t, []string{"Network", "Storage", "Unspecified"}, causes)

	// Type values were title-cased during enrichment.
	v, err := f.GetCellValue("Type", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Incident", v)
}

func TestRun_OverwritesPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testYAML), 0o644))
	input := writeInput(t, dir)
	outdir := filepath.Join(dir, "out")

	args := []string{"-input", input, "-outdir", outdir, "-config", cfgPath}
	require.NoError(t, Run(args))
	require.NoError(t, Run(args))

	_, err := os.Stat(filepath.Join(outdir, "MSR_Summary.xlsx"))
	assert.NoError(t, err)
}

func TestRun_MissingConfigIsFatal(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	err := Run([]string{"-input", input, "-config", filepath.Join(dir, "missing.yaml")})
	assert.ErrorIs(t, err, config.ErrNotFound)
}

func TestRun_MissingInputIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testYAML), 0o644))
	err := Run([]string{"-input", filepath.Join(dir, "missing.xlsx"), "-config", cfgPath, "-outdir", dir})
	assert.ErrorIs(t, err, excel.ErrInputNotFound)
}
