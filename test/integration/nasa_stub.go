package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
)

// NasaStub stands in for api.nasa.gov. Rover searches answer one photo
// per requested camera.
type NasaStub struct {
	*httptest.Server

	mu      sync.Mutex
	apod    model.Apod
	failing bool
	calls   int
}

// NewNasaStub starts the stub with a default picture of the day
func NewNasaStub() *NasaStub {
	s := &NasaStub{
		apod: model.Apod{
			Date:        "2024-03-01",
			Title:       "The Horsehead Nebula",
			Explanation: "A dark nebula in Orion.",
			URL:         "https://apod.nasa.gov/apod/image/horsehead.jpg",
			MediaType:   "image",
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/planetary/apod", s.handleApod).Methods("GET")
	r.HandleFunc("/mars-photos/api/v1/rovers/{rover}/photos", s.handleRover).Methods("GET")
	s.Server = httptest.NewServer(r)
	return s
}

// SetApod changes the picture of the day
func (s *NasaStub) SetApod(apod model.Apod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apod = apod
}

// SetFailing makes every call answer 500
func (s *NasaStub) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

// Calls returns the number of requests served since the last Reset
func (s *NasaStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Reset restores the defaults between scenarios
func (s *NasaStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = false
	s.calls = 0
}

// begin counts the call and reports whether it should fail
func (s *NasaStub) begin(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if r.URL.Query().Get("api_key") == "" {
		w.WriteHeader(http.StatusForbidden)
		return false
	}
	if s.failing {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"SERVER_ERROR","message":"upstream is down"}}`))
		return false
	}
	return true
}

func (s *NasaStub) handleApod(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r) {
		return
	}
	s.mu.Lock()
	apod := s.apod
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(apod)
}

func (s *NasaStub) handleRover(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r) {
		return
	}
	rover := mux.Vars(r)["rover"]
	date := r.URL.Query().Get("earth_date")

	resp := model.RoverPhotos{Photos: []model.RoverPhoto{}}
	for i, camera := range r.URL.Query()["camera"] {
		resp.Photos = append(resp.Photos, model.RoverPhoto{
			ID:        i + 1,
			Sol:       1000,
			Camera:    model.Camera{Name: strings.ToUpper(camera)},
			ImgSrc:    "https://mars.nasa.gov/" + rover + "/" + camera + ".jpg",
			EarthDate: date,
			Rover:     model.Rover{Name: rover, Status: model.RoverActive},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
