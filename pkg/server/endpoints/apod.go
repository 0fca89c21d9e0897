package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
)

// RegisterApodEndpoints registers the picture-of-the-day API
func RegisterApodEndpoints(s *server.Server) {
	r := s.Router

	r.HandleFunc("/api/apod", handleCurrentApod(s)).Methods("GET")
	r.HandleFunc("/api/apods", handleListApods(s)).Methods("GET")
	r.HandleFunc("/api/apods", handleDeleteAllApods(s)).Methods("DELETE")
	r.HandleFunc("/api/save-apod", handleSaveApod(s)).Methods("GET")
	r.HandleFunc("/api/apods/date/{date}", handleApodsByDate(s)).Methods("GET")
	r.HandleFunc("/api/apods/copyright/{copyright}", handleApodsByCopyright(s)).Methods("GET")
	r.HandleFunc("/api/apod/{id}", handleGetApod(s)).Methods("GET")
	r.HandleFunc("/api/apod/{id}", handleDeleteApod(s)).Methods("DELETE")
	r.HandleFunc("/api/apod/{id}", handleUpdateApod(s)).Methods("PUT")
}

func handleCurrentApod(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apod, err := s.Nasa.CurrentApod(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, apod)
	}
}

func handleListApods(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apods, err := s.Nasa.ListApods(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, apods)
	}
}

func handleSaveApod(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apod, err := s.Nasa.SaveCurrentApod(r.Context())
		event := audit.ApodEvent{Operation: audit.OperationSave}
		if apod != nil {
			event.ApodID = apod.ID
		}
		auditApod(s, r, event, err)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithText(w, http.StatusOK, fmt.Sprintf("Successfully Saved\nTitle: %s\nDate: %s", apod.Title, apod.Date))
	}
}

func handleGetApod(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseApodID(mux.Vars(r)["id"])
		if err != nil {
			apierror.Write(w, err)
			return
		}
		apod, err := s.Nasa.ApodByID(r.Context(), id)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, apod)
	}
}

func handleDeleteApod(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseApodID(mux.Vars(r)["id"])
		if err != nil {
			apierror.Write(w, err)
			return
		}
		err = s.Nasa.DeleteApod(r.Context(), id)
		auditApod(s, r, audit.ApodEvent{Operation: audit.OperationDelete, ApodID: id}, err)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithText(w, http.StatusOK, fmt.Sprintf("Delete Nasa Apod Id: %d", id))
	}
}

func handleUpdateApod(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseApodID(mux.Vars(r)["id"])
		if err != nil {
			apierror.Write(w, err)
			return
		}

		var edit model.Apod
		if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
			apierror.Write(w, fmt.Errorf("Invalid Apod body: %w", err))
			return
		}

		_, err = s.Nasa.UpdateApod(r.Context(), id, edit)
		auditApod(s, r, audit.ApodEvent{Operation: audit.OperationUpdate, ApodID: id}, err)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithText(w, http.StatusOK, fmt.Sprintf("Updated Nasa Apod Id: %d", id))
	}
}

func handleApodsByDate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := pathUnescape(mux.Vars(r)["date"])
		if err != nil {
			apierror.Write(w, err)
			return
		}
		apods, err := s.Nasa.ApodsByDate(r.Context(), date)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, apods)
	}
}

func handleApodsByCopyright(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		copyright, err := pathUnescape(mux.Vars(r)["copyright"])
		if err != nil {
			apierror.Write(w, err)
			return
		}
		apods, err := s.Nasa.ApodsByCopyright(r.Context(), copyright)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, apods)
	}
}

func handleDeleteAllApods(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.Nasa.DeleteAllApods(r.Context())
		auditApod(s, r, audit.ApodEvent{Operation: audit.OperationDeleteAll, Count: n}, err)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithText(w, http.StatusOK, fmt.Sprintf("Deleted %d Nasa Apods", n))
	}
}
