package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
)

// RegisterRoverEndpoints registers the Mars rover photo API
func RegisterRoverEndpoints(s *server.Server) {
	s.Router.HandleFunc("/api/rover/{rover}/{earthDate}/{camera}", handleRoverPhotos(s)).Methods("GET")
}

func handleRoverPhotos(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var values [3]string
		for i, name := range []string{"rover", "earthDate", "camera"} {
			v, err := pathUnescape(vars[name])
			if err != nil {
				apierror.Write(w, err)
				return
			}
			values[i] = v
		}

		photos, err := s.Nasa.RoverPhotos(r.Context(), values[0], values[1], values[2])
		if err != nil {
			apierror.Write(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, model.RoverPhotos{Photos: photos})
	}
}
