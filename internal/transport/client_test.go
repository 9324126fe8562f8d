package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/teamroster/internal/transport"
	"github.com/agentstation/teamroster/pkg/errors"
)

func TestBearerAuthApplied(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(&transport.BearerAuth{}, "secret-token")
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	require.NoError(t, transport.DecodeResponse(resp, "test", nil))

	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestNoAuthLeavesRequestBare(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(&transport.NoAuth{}, "")
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	require.NoError(t, transport.DecodeResponse(resp, "test", nil))

	assert.Empty(t, gotAuth)
}

func TestDecodeResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number": 42}`))
	}))
	defer server.Close()

	client := transport.New(nil, "")
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)

	var out struct {
		Number int `json:"number"`
	}
	require.NoError(t, transport.DecodeResponse(resp, "test", &out))
	assert.Equal(t, 42, out.Number)
}

func TestDecodeResponseAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	client := transport.New(nil, "")
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)

	err = transport.DecodeResponse(resp, "github", nil)
	require.Error(t, err)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "github", apiErr.Service)
	assert.Contains(t, apiErr.Message, "upstream broke")
}

func TestPostSendsJSON(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(&transport.BearerAuth{}, "tok")
	resp, err := client.Post(context.Background(), server.URL, map[string]string{"title": "x"})
	require.NoError(t, err)
	require.NoError(t, transport.DecodeResponse(resp, "test", nil))

	assert.Equal(t, "application/json", gotContentType)
}
