package endpoints

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/doodlesbykumbi/nasa-in-go/api"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
)

//go:embed static/css static/images
var staticFiles embed.FS

// RegisterStaticFiles registers static file serving for CSS, images and
// the API document. Everything is embedded in the binary.
func RegisterStaticFiles(srv *server.Server) {
	// Create sub-filesystem rooted at "static"
	staticFS, _ := fs.Sub(staticFiles, "static")

	cssFS, _ := fs.Sub(staticFS, "css")
	srv.Router.PathPrefix("/css/").Handler(
		http.StripPrefix("/css/", http.FileServer(http.FS(cssFS))),
	).Methods("GET")

	imgFS, _ := fs.Sub(staticFS, "images")
	srv.Router.PathPrefix("/images/").Handler(
		http.StripPrefix("/images/", http.FileServer(http.FS(imgFS))),
	).Methods("GET")

	srv.Router.HandleFunc("/docs/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	}).Methods("GET")
}
