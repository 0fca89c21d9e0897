package endpoints

import (
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterApodEndpoints(srv)
	RegisterRoverEndpoints(srv)
	RegisterAuthenticateEndpoint(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterPublicKeysEndpoints(srv)
	RegisterStatusEndpoints(srv)
	RegisterWebEndpoints(srv)

	// Static files
	RegisterStaticFiles(srv)
}
