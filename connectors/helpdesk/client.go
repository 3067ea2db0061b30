package helpdesk

// Package helpdesk provides a minimal connector for a ticket-system export
// API. It pages through the JSON ticket export and returns the rows under
// their source column names; normalization happens later in the pipeline.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"msr-report/domain/ticket"
)

const (
	exportPath = "/api/v1/tickets/export"
	pageSize   = 200
)

// Client is a thin wrapper over an authenticated http.Client.
// Use New to construct it.
type Client struct {
	base string
	c    *http.Client
}

func New(baseURL, token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	hc := oauth2.NewClient(context.Background(), src)
	hc.Timeout = 30 * time.Second
	return &Client{base: strings.TrimRight(baseURL, "/"), c: hc}
}

// exportPage is one page of the ticket export response.
type exportPage struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	HasMore bool                `json:"has_more"`
}

// ListTickets pages through the export endpoint and returns all rows as a
// dataset keyed by the server's column names. since, when non-empty, limits
// the export to tickets opened on or after that date (YYYY-MM-DD).
func (hc *Client) ListTickets(ctx context.Context, since string) (ticket.Dataset, error) {
	slog.Info("phase.tickets.fetch.start", "base", hc.base, "since", since)
	var ds ticket.Dataset
	offset := 0
	for {
		page, err := hc.fetchPage(ctx, since, offset)
		if err != nil {
			return ticket.Dataset{}, err
		}
		if ds.Columns == nil {
			ds.Columns = page.Columns
		}
		for _, row := range page.Rows {
			ds.Records = append(ds.Records, ticket.Record(row))
		}
		if !page.HasMore || len(page.Rows) == 0 {
			break
		}
		offset += len(page.Rows)
	}
	slog.Info("phase.tickets.fetch.done", "count", len(ds.Records))
	return ds, nil
}

func (hc *Client) fetchPage(ctx context.Context, since string, offset int) (*exportPage, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(pageSize))
	if since != "" {
		q.Set("since", since)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.base+exportPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("helpdesk export: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var page exportPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("helpdesk export: decode: %w", err)
	}
	return &page, nil
}
