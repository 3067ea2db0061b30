package cmdimport

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"msr-report/connectors/excel"
	"msr-report/connectors/helpdesk"
)

// Run executes the import command: pull the ticket export from a helpdesk
// API and write it as the raw input workbook. Column names are kept exactly
// as the server sends them; the report command's normalizer handles the
// renaming.
//
// Usage:
//
//	HELPDESK_TOKEN=xxx msr-report import -url https://helpdesk.example.com [-since 2025-01-01] [-out ./data/msr_sample.xlsx]
func Run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	baseURL := fs.String("url", "", "helpdesk base URL")
	since := fs.String("since", "", "only tickets opened on or after this date (YYYY-MM-DD)")
	out := fs.String("out", "./data/msr_sample.xlsx", "path to write the tracker workbook")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *baseURL == "" {
		slog.Error("import.validation.error", "reason", "missing url")
		return fmt.Errorf("import: -url is required")
	}
	token := os.Getenv("HELPDESK_TOKEN")
	if token == "" {
		slog.Error("import.validation.error", "reason", "missing HELPDESK_TOKEN")
		return fmt.Errorf("import: HELPDESK_TOKEN is not set")
	}
	slog.Info("import.start", "url", *baseURL, "since", *since, "out", *out)

	client := helpdesk.New(*baseURL, token)
	ds, err := client.ListTickets(context.Background(), *since)
	if err != nil {
		slog.Error("phase.tickets.fetch.error", "error", err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := excel.WriteRaw(*out, ds); err != nil {
		slog.Error("phase.workbook.write.error", "error", err)
		return err
	}
	slog.Info("import.done", "records", len(ds.Records), "out", *out)
	return nil
}
