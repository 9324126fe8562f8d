package sheet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/teamroster/pkg/sheet"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Full Name,Committee,Consent\nA Lee,program,yes\nB Kim,web,yes\n"))
	}))
	defer server.Close()

	client := sheet.NewClient(nil, "sheet-id", "Members").WithBaseURL(server.URL)
	table, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Full Name", "Committee", "Consent"}, table.Header)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "A Lee", table.Rows[0].Cells[0])
	assert.Equal(t, 1, table.Rows[0].Number)
	assert.Equal(t, "2", table.Rows[1].Ref())
}

func TestFetchRaggedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Full Name,Committee,Consent\nA Lee,program\n"))
	}))
	defer server.Close()

	client := sheet.NewClient(nil, "sheet-id", "Members").WithBaseURL(server.URL)
	table, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Len(t, table.Rows[0].Cells, 2)
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := sheet.NewClient(nil, "sheet-id", "Members").WithBaseURL(server.URL)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
}

func TestFetchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := sheet.NewClient(nil, "sheet-id", "Members").WithBaseURL(server.URL)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
}

func TestFetchRequiresSheetID(t *testing.T) {
	client := sheet.NewClient(nil, "", "Members")
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
}
