package web

import (
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	lo "github.com/samber/lo"

	"msr-report/connectors/config"
	"msr-report/connectors/excel"
	"msr-report/domain/report"
	"msr-report/domain/ticket"
)

//go:embed dashboard.html
var dashboardHTML []byte

// Run starts the interactive viewer: upload a tracker workbook, filter it,
// and browse the same pivots and metrics the report command exports.
//
// Usage:
//
//	msr-report web [-addr :8080] [-config ./config.yaml]
//
// Endpoints (all session routes accept type/priority/state multi-value
// query params and opened_from/opened_to/resolved_from/resolved_to dates):
//
//	POST /api/upload                     multipart "file" -> {session, total}
//	GET  /api/sessions/:id/options       distinct filter values and date ranges
//	GET  /api/sessions/:id/overview      filtered total + first rows
//	GET  /api/sessions/:id/pivots        all pivot tables
//	GET  /api/sessions/:id/pivots/:column single pivot table
//	GET  /api/sessions/:id/mttr          mean time to resolve per type
//	GET  /api/sessions/:id/trends        opened/resolved per month
//	GET  /api/sessions/:id/download      filtered summary workbook (.xlsx)
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "http listen address (host:port)")
	cfgPath := fs.String("config", "./config.yaml", "path to the YAML configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	s := newServer(cfg)

	slog.Info("web.start", "addr", *addr)
	return s.routes().Start(*addr)
}

func newServer(cfg *config.Config) *server {
	return &server{cfg: cfg, sessions: map[string]*report.Enriched{}}
}

func (s *server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.GET("/", func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, dashboardHTML)
	})
	e.POST("/api/upload", s.handleUpload)
	g := e.Group("/api/sessions/:id")
	g.GET("/options", s.handleOptions)
	g.GET("/overview", s.handleOverview)
	g.GET("/pivots", s.handlePivots)
	g.GET("/pivots/:column", s.handlePivot)
	g.GET("/mttr", s.handleMTTR)
	g.GET("/trends", s.handleTrends)
	g.GET("/download", s.handleDownload)
	return e
}

type server struct {
	cfg *config.Config

	mu       sync.Mutex
	sessions map[string]*report.Enriched
}

// handleUpload runs the full pipeline once on the uploaded workbook and
// keeps the enriched result in memory under a fresh session id. Pipeline
// failures come back as JSON errors so the page shows a warning instead of
// dying.
func (s *server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing file upload"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	defer src.Close()

	ds, err := excel.ReadSheet(src)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": fmt.Sprintf("cannot read workbook: %v", err)})
	}
	ds, err = report.NormalizeColumns(ds, s.cfg.Aliases)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	enriched := report.Enrich(ds, s.cfg)

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = enriched
	s.mu.Unlock()
	slog.Info("web.session.created", "session", id, "records", enriched.Total())

	return c.JSON(http.StatusOK, echo.Map{"session": id, "total": enriched.Total()})
}

func (s *server) session(c echo.Context) (*report.Enriched, error) {
	s.mu.Lock()
	e, ok := s.sessions[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown session")
	}
	return e, nil
}

// filtered applies the query-param filter to the session's dataset. The
// pipeline re-runs synchronously per request, bounded by one uploaded file.
func (s *server) filtered(c echo.Context) (*report.Enriched, error) {
	e, err := s.session(c)
	if err != nil {
		return nil, err
	}
	return filterFromQuery(c).Apply(e), nil
}

func filterFromQuery(c echo.Context) report.Filter {
	q := c.QueryParams()
	return report.Filter{
		Types:        q["type"],
		Priorities:   q["priority"],
		States:       q["state"],
		OpenedFrom:   parseDateParam(c.QueryParam("opened_from"), false),
		OpenedTo:     parseDateParam(c.QueryParam("opened_to"), true),
		ResolvedFrom: parseDateParam(c.QueryParam("resolved_from"), false),
		ResolvedTo:   parseDateParam(c.QueryParam("resolved_to"), true),
	}
}

// parseDateParam parses a YYYY-MM-DD bound. "To" bounds cover the whole day.
func parseDateParam(s string, endOfDay bool) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

func (s *server) handleOptions(c echo.Context) error {
	e, err := s.session(c)
	if err != nil {
		return err
	}
	res := echo.Map{
		"type":     distinctValues(e, ticket.ColType),
		"priority": distinctValues(e, ticket.ColPriority),
		"state":    distinctValues(e, ticket.ColState),
		"opened":   dateRange(e.OpenedAt),
		"resolved": dateRange(e.ResolvedAt),
	}
	return c.JSON(http.StatusOK, res)
}

func distinctValues(e *report.Enriched, col string) []string {
	values := lo.FilterMap(e.Dataset.Records, func(r ticket.Record, _ int) (string, bool) {
		return r.Get(col)
	})
	values = lo.Uniq(values)
	sort.Strings(values)
	return values
}

func dateRange(stamps []*time.Time) map[string]string {
	var first, last *time.Time
	for _, t := range stamps {
		if t == nil {
			continue
		}
		if first == nil || t.Before(*first) {
			first = t
		}
		if last == nil || t.After(*last) {
			last = t
		}
	}
	if first == nil {
		return nil
	}
	return map[string]string{
		"min": first.Format("2006-01-02"),
		"max": last.Format("2006-01-02"),
	}
}

func (s *server) handleOverview(c echo.Context) error {
	e, err := s.session(c)
	if err != nil {
		return err
	}
	filtered := filterFromQuery(c).Apply(e)
	head := filtered.Dataset.Records
	if len(head) > 10 {
		head = head[:10]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":       filtered.Total(),
		"grand_total": e.Total(),
		"columns":     filtered.Dataset.Columns,
		"records":     head,
	})
}

func (s *server) handlePivots(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"pivots": report.BuildAll(filtered)})
}

func (s *server) handlePivot(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report.BuildPivot(filtered, c.Param("column")))
}

func (s *server) handleMTTR(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	rows := report.MTTRByType(filtered)
	if len(rows) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"rows": []report.MTTRRow{}, "message": "no resolved tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": rows})
}

func (s *server) handleTrends(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"opened":   report.MonthlyOpened(filtered),
		"resolved": report.MonthlyResolved(filtered),
	})
}

func (s *server) handleDownload(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	filename := s.cfg.Output.Filename
	if filename == "" {
		filename = "MSR_Summary.xlsx"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return excel.WriteSummaryTo(c.Response(), filtered, report.BuildAll(filtered), s.cfg.Output)
}
