package authn

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
)

// Name is the strategy name of the password authenticator
const Name = "basic"

// Authenticator checks HTTP Basic credentials against stored members
type Authenticator struct {
	members store.MemberStore
}

// New creates a new password authenticator
func New(members store.MemberStore) *Authenticator {
	return &Authenticator{members: members}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return Name
}

// Authenticate reads the Authorization: Basic header
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*identity.Identity, error) {
	user, password, ok := r.BasicAuth()
	if !ok {
		return nil, authenticator.ErrNoCredentials
	}
	return a.Check(ctx, user, password)
}

// Check verifies a user id and password pair. It backs both the Basic
// header and the login form.
func (a *Authenticator) Check(ctx context.Context, user, password string) (*identity.Identity, error) {
	if user == "" {
		return nil, fmt.Errorf("%w: login is required", authenticator.ErrInvalidCredentials)
	}

	member, err := a.members.FindMember(ctx, user)
	if errors.Is(err, store.ErrMemberNotFound) {
		return nil, authenticator.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !member.Active {
		return nil, fmt.Errorf("%w: member is disabled", authenticator.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(member.PasswordHash(), []byte(password)); err != nil {
		return nil, authenticator.ErrInvalidCredentials
	}

	return identity.New(member.UserID, policy.NormalizeRoles(member.RoleNames()), identity.MethodBasic), nil
}
