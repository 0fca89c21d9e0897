// Package store provides the persistence gateway of the NASA gateway.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// GORM implementations live in the gorm subpackage; tests use testify mocks.
//
// # Available Stores
//
//   - ApodStore: stored Astronomy Pictures of the Day
//   - MemberStore: principals and their role assignments
//   - HealthStore: database connectivity check
//
// # Usage
//
//	apods := gormstore.NewApodStore(db)
//	apod, err := apods.FindByID(ctx, 7)
//	if err != nil {
//	    if errors.Is(err, store.ErrApodNotFound) {
//	        // Handle not found
//	    }
//	}
package store
