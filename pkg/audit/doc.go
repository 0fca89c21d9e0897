// Package audit writes security-relevant events as RFC5424 syslog lines.
//
// Three event types are recorded:
//
//   - Authentication attempts from every strategy (basic, bearer, session)
//   - Requests denied by the access policy
//   - Changes to the stored APOD collection
//
// # Usage
//
//	logger := audit.NewLogger()
//	logger.Log(audit.AuthenticateEvent{User: "admin", Method: "basic", Success: true})
//
// Output can be switched off with SetEnabled(false), which is how the
// NASA_AUDIT_ENABLED setting is applied.
//
// With NASA_AUDIT_DATABASE set, events are also inserted into the
// audit_messages table through a Store:
//
//	logger.SetStore(audit.NewStoreWithDB(sqlDB), func(err error) {
//	    log.WithError(err).Warn("failed to persist audit event")
//	})
package audit
