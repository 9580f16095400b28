package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aegis/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrRoutingUnavailable is returned when the routing provider cannot be
// reached, the circuit is open or retries are exhausted.
var ErrRoutingUnavailable = errors.New("routing provider unavailable")

// RoutingClient wraps the external routing API behind a circuit breaker
// with retried, timed-out calls. A flapping provider must never take
// the rest of the API down with it.
type RoutingClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]

	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

type RoutingClientConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func NewRoutingClient(cfg RoutingClientConfig) *RoutingClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "routing",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	})

	return &RoutingClient{
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		breaker:         breaker,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

type routeCandidate struct {
	Points          []models.RoutePoint
	DistanceKM      float64
	DurationMinutes float64
}

type serverError struct {
	statusCode int
}

func (e *serverError) Error() string {
	return "routing server error: " + http.StatusText(e.statusCode)
}

// FetchRoutes asks the provider for walking routes between two points,
// alternatives included.
func (rc *RoutingClient) FetchRoutes(ctx context.Context, originLat, originLng, destLat, destLng float64) ([]routeCandidate, error) {
	url := fmt.Sprintf("%s/route/v1/foot/%f,%f;%f,%f?overview=full&geometries=geojson&alternatives=true",
		rc.baseURL, originLng, originLat, destLng, destLat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if rc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+rc.apiKey)
	}

	resp, err := rc.do(ctx, req)
	if err != nil {
		return nil, ErrRoutingUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrRoutingUnavailable
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, ErrRoutingUnavailable
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, ErrRoutingUnavailable
	}

	candidates := make([]routeCandidate, 0, len(parsed.Routes))
	for _, route := range parsed.Routes {
		points := make([]models.RoutePoint, 0, len(route.Geometry.Coordinates))
		for _, coord := range route.Geometry.Coordinates {
			if len(coord) < 2 {
				continue
			}
			// GeoJSON order is lon, lat
			points = append(points, models.RoutePoint{
				Latitude:  coord[1],
				Longitude: coord[0],
			})
		}
		candidates = append(candidates, routeCandidate{
			Points:          points,
			DistanceKM:      route.Distance / 1000,
			DurationMinutes: route.Duration / 60,
		})
	}

	return candidates, nil
}

func (rc *RoutingClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = rc.initialInterval
	bo.MaxInterval = rc.maxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, rc.maxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := rc.breaker.Execute(func() (*http.Response, error) {
			r, err := rc.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			// 5xx trips the breaker; 4xx is the caller's problem.
			if r.StatusCode >= 500 {
				r.Body.Close()
				return nil, &serverError{statusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrRoutingUnavailable)
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return lastResp, nil
}

// State exposes the breaker state for health reporting.
func (rc *RoutingClient) State() gobreaker.State {
	return rc.breaker.State()
}
