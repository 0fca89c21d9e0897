// Package server provides the HTTP server of the NASA gateway.
//
// NewServer wires the stores, the NASA client, the token service and the
// authentication strategies, and installs the middleware on a gorilla/mux
// router. Routes are registered by the endpoints subpackage:
//
//	srv, err := server.NewServer(server.Options{Config: cfg, DB: db, Logger: logger})
//	if err != nil {
//	    return err
//	}
//	endpoints.RegisterAll(srv)
//	return srv.Run(ctx, listener)
//
// # Middleware
//
// Every request passes through, from the outside in:
//
//   - panic recovery (gorilla/handlers)
//   - CORS, when origins are configured (rs/cors)
//   - forwarding headers from trusted proxies
//   - request ids
//   - request logging and Prometheus metrics
//   - the authentication and authorization gate
//
// The gate runs after route matching, so the access policy is evaluated
// against the route template (for example /api/apod/{id}) rather than the
// raw path.
package server
