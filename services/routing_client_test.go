package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osrmBody = `{
	"code": "Ok",
	"routes": [
		{
			"distance": 2500,
			"duration": 1800,
			"geometry": {"coordinates": [[90.4125, 23.8103], [90.4150, 23.8120], [90.4200, 23.8150]]}
		},
		{
			"distance": 3100,
			"duration": 2220,
			"geometry": {"coordinates": [[90.4125, 23.8103], [90.4000, 23.8200], [90.4200, 23.8150]]}
		}
	]
}`

func newTestClient(baseURL string) *RoutingClient {
	return NewRoutingClient(RoutingClientConfig{
		BaseURL:         baseURL,
		Timeout:         2 * time.Second,
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	})
}

func TestFetchRoutesParsesAlternatives(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/foot/")
		assert.Equal(t, "true", r.URL.Query().Get("alternatives"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		w.Write([]byte(osrmBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	routes, err := client.FetchRoutes(context.Background(), 23.8103, 90.4125, 23.8150, 90.4200)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.InDelta(t, 2.5, routes[0].DistanceKM, 0.001)
	assert.InDelta(t, 30.0, routes[0].DurationMinutes, 0.001)
	require.Len(t, routes[0].Points, 3)

	// GeoJSON coordinates arrive lon-first
	assert.InDelta(t, 23.8103, routes[0].Points[0].Latitude, 0.0001)
	assert.InDelta(t, 90.4125, routes[0].Points[0].Longitude, 0.0001)
}

func TestFetchRoutesSendsAPIKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(osrmBody))
	}))
	defer server.Close()

	client := NewRoutingClient(RoutingClientConfig{
		BaseURL:         server.URL,
		APIKey:          "secret-key",
		InitialInterval: time.Millisecond,
	})

	_, err := client.FetchRoutes(context.Background(), 23.8103, 90.4125, 23.8150, 90.4200)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestFetchRoutesRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(osrmBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	routes, err := client.FetchRoutes(context.Background(), 23.8103, 90.4125, 23.8150, 90.4200)
	require.NoError(t, err)
	assert.Len(t, routes, 2)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestFetchRoutesUnavailableAfterRetryExhaustion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchRoutes(context.Background(), 23.8103, 90.4125, 23.8150, 90.4200)
	assert.ErrorIs(t, err, ErrRoutingUnavailable)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	for i := 0; i < 3; i++ {
		_, err := client.FetchRoutes(context.Background(), 23.8103, 90.4125, 23.8150, 90.4200)
		assert.ErrorIs(t, err, ErrRoutingUnavailable)
	}

	assert.Equal(t, gobreaker.StateOpen, client.State())
}

func TestFetchRoutesRejectsProviderErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchRoutes(context.Background(), 23.8103, 90.4125, 23.8150, 90.4200)
	assert.ErrorIs(t, err, ErrRoutingUnavailable)
}
