package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
)

const (
	// DefaultBaseURL is the public NASA API host.
	DefaultBaseURL = "https://api.nasa.gov"
	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 30 * time.Second

	EndpointApod  = "apod"
	EndpointRover = "rover-photos"
)

// Recorder receives one observation per upstream call.
type Recorder interface {
	ObserveUpstream(endpoint, outcome string, elapsed time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	Recorder   Recorder
}

// Client calls the NASA APIs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        logrus.FieldLogger
	recorder   Recorder
}

// RoverQuery selects rover photos. Rover is lowercased before the call; the
// earth date and camera codes are sent as given.
type RoverQuery struct {
	Rover     string
	EarthDate string
	Cameras   []string
}

// NewClient creates a Client, filling in defaults for unset fields.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		log:        log,
		recorder:   cfg.Recorder,
	}
}

// Apod fetches today's Astronomy Picture of the Day.
func (c *Client) Apod(ctx context.Context) (*model.Apod, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var apod model.Apod
	if err := c.get(ctx, EndpointApod, "/planetary/apod", q, &apod); err != nil {
		return nil, err
	}
	return &apod, nil
}

// RoverPhotos fetches the photos matching query. An empty result is not an
// error.
func (c *Client) RoverPhotos(ctx context.Context, query RoverQuery) ([]model.RoverPhoto, error) {
	q := url.Values{}
	q.Set("earth_date", query.EarthDate)
	for _, camera := range query.Cameras {
		q.Add("camera", camera)
	}
	q.Set("api_key", c.apiKey)

	path := "/mars-photos/api/v1/rovers/" + url.PathEscape(strings.ToLower(query.Rover)) + "/photos"

	var resp model.RoverPhotos
	if err := c.get(ctx, EndpointRover, path, q, &resp); err != nil {
		return nil, err
	}
	if resp.Photos == nil {
		resp.Photos = []model.RoverPhoto{}
	}
	return resp.Photos, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		if c.recorder != nil {
			c.recorder.ObserveUpstream(endpoint, outcome, time.Since(start))
		}
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"elapsed":  time.Since(start),
			"outcome":  outcome,
		}).Debug("nasa upstream call")
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*maxErrorBody))
		return &UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    "undecodable response",
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}
