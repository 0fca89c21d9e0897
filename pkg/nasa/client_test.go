package nasa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
)

const apodBody = `{
  "copyright": "Jane Doe",
  "date": "2024-03-01",
  "explanation": "A spiral galaxy.",
  "hdurl": "https://apod.nasa.gov/apod/image/hd.jpg",
  "media_type": "image",
  "service_version": "v1",
  "title": "M101",
  "url": "https://apod.nasa.gov/apod/image/sd.jpg"
}`

const roverBody = `{
  "photos": [
    {
      "id": 102693,
      "sol": 1000,
      "camera": {"id": 20, "name": "FHAZ", "rover_id": 5, "full_name": "Front Hazard Avoidance Camera"},
      "img_src": "http://mars.jpl.nasa.gov/msl-raw-images/fhaz.JPG",
      "earth_date": "2015-05-30",
      "rover": {
        "id": 5,
        "name": "Curiosity",
        "landing_date": "2012-08-06",
        "launch_date": "2011-11-26",
        "status": "active",
        "max_sol": 4102,
        "max_date": "2024-02-19",
        "total_photos": 695670,
        "cameras": [{"name": "FHAZ", "full_name": "Front Hazard Avoidance Camera"}]
      }
    }
  ]
}`

type recordedCall struct {
	endpoint string
	outcome  string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeRecorder) ObserveUpstream(endpoint, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{endpoint, outcome})
}

func TestClient_Apod(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apodBody))
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "secret-key", Recorder: rec})

	apod, err := c.Apod(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/planetary/apod", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, model.Apod{
		Date:           "2024-03-01",
		Title:          "M101",
		Explanation:    "A spiral galaxy.",
		URL:            "https://apod.nasa.gov/apod/image/sd.jpg",
		HDURL:          "https://apod.nasa.gov/apod/image/hd.jpg",
		Copyright:      "Jane Doe",
		MediaType:      "image",
		ServiceVersion: "v1",
	}, *apod)
	assert.Equal(t, []recordedCall{{EndpointApod, "success"}}, rec.calls)
}

func TestClient_RoverPhotos(t *testing.T) {
	var gotPath string
	var gotCameras []string
	var gotDate, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("earth_date")
		gotCameras = r.URL.Query()["camera"]
		gotKey = r.URL.Query().Get("api_key")
		_, _ = w.Write([]byte(roverBody))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})

	photos, err := c.RoverPhotos(context.Background(), RoverQuery{
		Rover:     "Curiosity",
		EarthDate: "2015-5-30",
		Cameras:   []string{"FHAZ"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/mars-photos/api/v1/rovers/curiosity/photos", gotPath)
	assert.Equal(t, "2015-5-30", gotDate)
	assert.Equal(t, []string{"FHAZ"}, gotCameras)
	assert.Equal(t, "k", gotKey)

	require.Len(t, photos, 1)
	p := photos[0]
	assert.Equal(t, 102693, p.ID)
	assert.Equal(t, 1000, p.Sol)
	assert.Equal(t, "FHAZ", p.Camera.Name)
	assert.Equal(t, 5, p.Camera.RoverID)
	assert.Equal(t, "Curiosity", p.Rover.Name)
	assert.Equal(t, model.RoverActive, p.Rover.Status)
	assert.Equal(t, 695670, p.Rover.TotalPhotos)
	require.Len(t, p.Rover.Cameras, 1)
	assert.Equal(t, "Front Hazard Avoidance Camera", p.Rover.Cameras[0].FullName)
}

func TestClient_RoverPhotos_MultipleCameras(t *testing.T) {
	var gotCameras []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCameras = r.URL.Query()["camera"]
		_, _ = w.Write([]byte(`{"photos":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.RoverPhotos(context.Background(), RoverQuery{Rover: "spirit", EarthDate: "2004-01-05", Cameras: []string{"navcam", "pancam"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"navcam", "pancam"}, gotCameras)
}

func TestClient_RoverPhotos_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	photos, err := c.RoverPhotos(context.Background(), RoverQuery{Rover: "curiosity", EarthDate: "2015-05-30", Cameras: []string{"mast"}})
	require.NoError(t, err)

	assert.NotNil(t, photos)
	assert.Empty(t, photos)
}

func TestClient_UpstreamStatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "rover gateway message",
			status:      http.StatusBadRequest,
			body:        `{"errors":"Invalid date","msg":"date must be YYYY-MM-DD"}`,
			wantMessage: "date must be YYYY-MM-DD",
		},
		{
			name:        "api key error",
			status:      http.StatusForbidden,
			body:        `{"error":{"code":"API_KEY_INVALID","message":"An invalid api_key was supplied."}}`,
			wantMessage: "An invalid api_key was supplied.",
		},
		{
			name:        "plain text",
			status:      http.StatusServiceUnavailable,
			body:        "upstream down\n",
			wantMessage: "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			rec := &fakeRecorder{}
			c := NewClient(Config{BaseURL: srv.URL, Recorder: rec})
			_, err := c.Apod(context.Background())

			var upErr *UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.status, upErr.StatusCode)
			assert.Equal(t, tt.wantMessage, upErr.Message)
			assert.Equal(t, http.StatusBadGateway, upErr.HTTPStatus())
			assert.False(t, upErr.Timeout())
			assert.Equal(t, []recordedCall{{EndpointApod, "error"}}, rec.calls)
		})
	}
}

func TestClient_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Apod(context.Background())

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.HTTPStatus())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Apod(context.Background())

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 0, upErr.StatusCode)
	assert.True(t, upErr.Timeout())
	assert.Equal(t, http.StatusGatewayTimeout, upErr.HTTPStatus())
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(apodBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Apod(ctx)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, http.StatusBadGateway, upErr.HTTPStatus())
}

func TestUpstreamError_Error(t *testing.T) {
	assert.Equal(t, "nasa apod returned 500: boom", (&UpstreamError{Endpoint: "apod", StatusCode: 500, Message: "boom"}).Error())
	assert.Equal(t, "nasa apod returned 500", (&UpstreamError{Endpoint: "apod", StatusCode: 500}).Error())
	assert.Equal(t, "nasa apod request failed: dial", (&UpstreamError{Endpoint: "apod", Err: errors.New("dial")}).Error())
}
