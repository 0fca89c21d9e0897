// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// The implementations work against both the PostgreSQL and the SQLite
// dialectors returned by pkg/db.
package gorm
