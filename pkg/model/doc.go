// Package model defines the records handled by the NASA gateway.
//
// Apod, Member and MemberRole are GORM models mapped onto the gateway's
// PostgreSQL schema (see db/migrations). The rover records are decoded from
// the upstream Mars Rover Photos API and are never persisted.
//
// # Database Schema
//
//   - apods: stored Astronomy Pictures of the Day
//   - nasa_members: principals (user id, bcrypt hash, active flag)
//   - nasa_roles: role assignments per principal
package model
