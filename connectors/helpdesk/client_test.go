package helpdesk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTickets_PagesUntilDone(t *testing.T) {
	var gotAuth, gotSince string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, exportPath, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotSince = r.URL.Query().Get("since")

		page := exportPage{Columns: []string{"Number", "Type"}}
		switch r.URL.Query().Get("offset") {
		case "0":
			page.Rows = []map[string]string{
				{"Number": "T1", "Type": "Incident"},
				{"Number": "T2", "Type": "Request"},
			}
			page.HasMore = true
		case "2":
			page.Rows = []map[string]string{{"Number": "T3", "Type": "Incident"}}
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token")
	ds, err := c.ListTickets(context.Background(), "2025-01-01")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "2025-01-01", gotSince)
	assert.Equal(t, []string{"Number", "Type"}, ds.Columns)
	require.Len(t, ds.Records, 3)
	assert.Equal(t, "T3", ds.Records[2]["Number"])
}

func TestListTickets_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "export disabled", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token")
	_, err := c.ListTickets(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "export disabled")
}
