// Package apierror is the single place where failures become HTTP
// responses. Every API handler reports errors through Write, which picks
// the status from the error type and writes a Record:
//
//	{"status": 404, "message": "No Apod Found With Id: 7", "timestamp": 1714564800000}
package apierror
