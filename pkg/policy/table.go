package policy

import "net/http"

// Default returns the gateway's route policy.
func Default() *Policy {
	return New(
		// Stored and live pictures of the day
		RequireAny(http.MethodGet, "/api/apod", Staff...),
		RequireAny(http.MethodGet, "/api/apods", Staff...),
		RequireAny(http.MethodGet, "/api/save-apod", Staff...),
		RequireAny(http.MethodGet, "/api/apod/{id}", Staff...),
		RequireAny(http.MethodGet, "/api/apods/date/{date}", Staff...),
		RequireAny(http.MethodGet, "/api/apods/copyright/{copyright}", Staff...),
		RequireAny(http.MethodPut, "/api/apod/{id}", AdminOnly...),
		RequireAny(http.MethodDelete, "/api/apod/{id}", AdminOnly...),
		RequireAny(http.MethodDelete, "/api/apods", AdminOnly...),

		// Mars rover photos
		RequireAny(http.MethodGet, "/api/rover/{rover}/{earthDate}/{camera}", Staff...),

		// Pages
		RequireAny(http.MethodGet, "/nasa/home-page", Staff...),
		RequireAny(http.MethodGet, "/nasa/mars-apod", Staff...),
		RequireAny(http.MethodGet, "/nasa/mars-rover", Staff...),
		RequireAny(http.MethodPost, "/nasa/mars-rover", Staff...),
		RequireAny(http.MethodGet, "/nasa/list-apods", AdminOnly...),
		RequireAny(http.MethodPost, "/nasa/save-apod", AdminOnly...),
		RequireAny(http.MethodPost, "/nasa/delete-apod", AdminOnly...),
		RequireAny(http.MethodGet, "/nasa/update-apod", AdminOnly...),
		RequireAny(http.MethodPost, "/nasa/update-apod", AdminOnly...),

		// Sign-in
		PublicRoute(http.MethodPost, "/authenticate"),
		PublicRoute(http.MethodGet, "/get-token"),
		PublicRoute(http.MethodGet, "/public-key"),
		PublicRoute(http.MethodGet, "/login"),
		PublicRoute(http.MethodPost, "/login"),
		PublicRoute(http.MethodPost, "/logout"),
		PublicRoute(http.MethodGet, "/access-denied"),

		// Operations and documentation
		PublicRoute(http.MethodGet, "/"),
		PublicRoute(http.MethodGet, "/metrics"),
		PublicRoute(http.MethodGet, "/docs/openapi.yaml"),
		PublicPrefix("/css/"),
		PublicPrefix("/images/"),
	)
}
