package report

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"msr-report/connectors/config"
	"msr-report/connectors/excel"
	"msr-report/domain/report"
)

// Run executes the report command: read the ticket tracker, normalize and
// enrich it, and write the multi-sheet summary workbook.
//
// Usage:
//
//	msr-report report [-input ./data/msr_sample.xlsx] [-outdir ./out] [-config ./config.yaml] [-charts]
func Run(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	input := fs.String("input", "./data/msr_sample.xlsx", "path to the input tracker (.xlsx)")
	outdir := fs.String("outdir", "./out", "directory to write the summary into")
	cfgPath := fs.String("config", "./config.yaml", "path to the YAML configuration")
	charts := fs.Bool("charts", false, "embed bar charts in the summary workbook")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(resolvePath(*cfgPath, "config.yaml"))
	if err != nil {
		return err
	}
	slog.Info("report.start", "input", *input, "outdir", *outdir)

	ds, err := excel.ReadWorkbook(resolvePath(*input, filepath.Join("data", "msr_sample.xlsx")))
	if err != nil {
		return err
	}
	slog.Info("phase.read.done", "columns", len(ds.Columns), "records", len(ds.Records))

	ds, err = report.NormalizeColumns(ds, cfg.Aliases)
	if err != nil {
		return err
	}
	e := report.Enrich(ds, cfg)
	pivots := report.BuildAll(e)

	if err := os.MkdirAll(*outdir, 0o755); err != nil {
		return err
	}
	filename := cfg.Output.Filename
	if filename == "" {
		filename = "MSR_Summary.xlsx"
	}
	outPath := filepath.Join(*outdir, filename)

	opts := cfg.Output
	opts.AddCharts = opts.AddCharts || *charts
	if err := excel.WriteSummary(outPath, e, pivots, opts); err != nil {
		return err
	}

	b, err := json.MarshalIndent(map[string]string{"summary_path": outPath}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	fmt.Printf("MSR summary generated at: %s\n", outPath)
	return nil
}

// resolvePath returns path if it exists, else the same relative location
// next to the executable when that exists. When neither does, the original
// path comes back so the reader reports it in its not-found error.
func resolvePath(path, fallbackRel string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return path
	}
	fb := filepath.Join(filepath.Dir(exe), fallbackRel)
	if _, err := os.Stat(fb); err == nil {
		slog.Info("report.path.fallback", "requested", path, "using", fb)
		return fb
	}
	return path
}
