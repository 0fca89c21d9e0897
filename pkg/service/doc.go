// Package service holds the NASA gateway operations shared by the JSON API
// and the web pages: reading the live picture of the day, managing stored
// pictures and querying rover photos.
package service
