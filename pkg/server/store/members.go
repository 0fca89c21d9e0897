package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
)

// ErrMemberNotFound is returned when a principal doesn't exist
var ErrMemberNotFound = errors.New("member not found")

// MemberStore abstracts storage of principals and their roles
type MemberStore interface {
	// FindMember loads a member with its roles.
	// Returns ErrMemberNotFound if the member doesn't exist.
	FindMember(ctx context.Context, userID string) (*model.Member, error)

	// CreateMember stores a new member together with its roles.
	CreateMember(ctx context.Context, member *model.Member) error

	// SetRoles replaces the role assignments of a member.
	SetRoles(ctx context.Context, userID string, roles []string) error

	// SetActive enables or disables sign-in for a member.
	SetActive(ctx context.Context, userID string, active bool) error
}
