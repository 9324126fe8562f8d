package publish_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/teamroster/internal/transport"
	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/publish"
)

func TestOpenNewPullRequest(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var created map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`[]`)) // no open PR for the branch
		case r.Method == http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"number": 12, "html_url": "https://github.com/org/site/pull/12"}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := publish.NewPRClient(transport.New(&transport.BearerAuth{}, "tok"), "org", "site").
		WithAPIBase(server.URL)

	pr, err := client.OpenOrUpdate(context.Background(), "team-page-update", "main", "Team page auto-update", "body text")
	require.NoError(t, err)

	assert.Equal(t, 12, pr.Number)
	assert.Equal(t, "team-page-update", created["head"])
	assert.Equal(t, "main", created["base"])
	assert.Equal(t, "body text", created["body"])
}

func TestUpdateExistingPullRequest(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var patchedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"number": 7, "html_url": "https://github.com/org/site/pull/7"}]`))
		case http.MethodPatch:
			patchedPath = r.URL.Path
			w.Write([]byte(`{"number": 7, "html_url": "https://github.com/org/site/pull/7"}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := publish.NewPRClient(transport.New(&transport.BearerAuth{}, "tok"), "org", "site").
		WithAPIBase(server.URL)

	pr, err := client.OpenOrUpdate(context.Background(), "team-page-update", "main", "title", "fresh body")
	require.NoError(t, err)

	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "/repos/org/site/pulls/7", patchedPath)
}

func TestOpenPullRequestAPIError(t *testing.T) {
	logging.DisableLoggingForTest(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Bad credentials"}`))
	}))
	defer server.Close()

	client := publish.NewPRClient(transport.New(&transport.BearerAuth{}, "bad"), "org", "site").
		WithAPIBase(server.URL)

	_, err := client.OpenOrUpdate(context.Background(), "b", "main", "t", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
