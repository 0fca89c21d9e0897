package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// Store persists audit events to the audit_messages table
type Store struct {
	db       *sql.DB
	hostname string
	appName  string
	pid      string
	now      func() time.Time
}

// NewStoreWithDB creates a store on an existing PostgreSQL connection
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{
		db:       db,
		hostname: hostname,
		appName:  "nasa",
		pid:      strconv.Itoa(os.Getpid()),
		now:      time.Now,
	}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	sdataJSON, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO audit_messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.Facility(),
		int(event.Severity()),
		s.now().UTC(),
		s.hostname,
		s.appName,
		s.pid,
		event.MessageID(),
		sdataJSON,
		event.Message(),
	)
	return err
}
