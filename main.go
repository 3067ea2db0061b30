package main

import (
	"fmt"
	"log/slog"
	"os"

	cmdimport "msr-report/command/import"
	cmdreport "msr-report/command/report"
	cmdweb "msr-report/command/web"
)

// msr-report automates the Monthly Status Review: it ingests a service-desk
// ticket tracker (.xlsx), normalizes its column names via a configurable
// alias table, coalesces explicit and keyword-inferred root causes, derives
// resolution-time metrics, and emits pivot summaries as a multi-sheet
// workbook or an interactive dashboard.
//
// Usage:
//
//	msr-report report [-input tracker.xlsx] [-outdir ./out] [-config ./config.yaml] [-charts]
//	msr-report web [-addr :8080] [-config ./config.yaml]
//	msr-report import -url <helpdesk> [-since 2025-01-01] [-out ./data/msr_sample.xlsx]
func main() {
	args := os.Args
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "report":
			if err := cmdreport.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "import":
			if err := cmdimport.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: msr-report report [-input <xlsx>] [-outdir <dir>] [-config <yaml>] [-charts] | web [-addr :8080] | import -url <helpdesk>")
	os.Exit(2)
}
