// Package nasa is the client for the two upstream NASA endpoints the gateway
// proxies: Astronomy Picture of the Day and Mars Rover Photos.
//
// Requests carry the caller's context, so cancelling an inbound request
// cancels the upstream call. The client never retries. Any non-2xx answer or
// transport failure is returned as an *UpstreamError.
package nasa
