package opendata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		BaseURL:  server.URL,
		Endpoint: "/exports/json",
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func testQuery() Query {
	return Query{
		Region: "Bretagne",
		Since:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Until:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Limit:  50,
	}
}

func TestFetchEventsReturnsRecords(t *testing.T) {
	var gotWhere, gotLimit string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotWhere = r.URL.Query().Get("where")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"uid":"a"},{"uid":"b"}]`))
	})

	records, err := client.FetchEvents(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0]["uid"])
	assert.Equal(t, "b", records[1]["uid"])

	assert.Equal(t, `location_region="Bretagne" AND firstdate_begin >= "2025-01-01T00:00:00" AND lastdate_begin <= "2026-01-01T00:00:00"`, gotWhere)
	assert.Equal(t, "50", gotLimit)
}

func TestFetchEventsWrapsSingleObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"uid":"only"}`))
	})

	records, err := client.FetchEvents(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "only", records[0]["uid"])
}

func TestFetchEventsNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := client.FetchEvents(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchEventsMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.FetchEvents(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestNewClientConfig(t *testing.T) {
	_, err := NewClient(&Config{Endpoint: "/x"})
	assert.ErrorIs(t, err, ErrBaseURLRequired)

	_, err = NewClient(&Config{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, ErrEndpointRequired)

	client, err := NewClient(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
