package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/token"
)

func TestFromClaims(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0)
	claims := &token.Claims{
		Scope: "ROLE_EMPLOYEE ROLE_ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mary",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(30 * time.Minute)),
		},
	}

	id := FromClaims(claims, MethodBearer)

	assert.Equal(t, "mary", id.Subject)
	assert.Equal(t, []string{"ROLE_EMPLOYEE", "ROLE_ADMIN"}, id.Roles)
	assert.Equal(t, MethodBearer, id.Method)
	assert.True(t, issuedAt.Equal(id.IssuedAt))
	assert.True(t, issuedAt.Add(30*time.Minute).Equal(id.ExpiresAt))
}

func TestFromClaims_EmptyScope(t *testing.T) {
	claims := &token.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "john"}}

	id := FromClaims(claims, MethodSession)

	assert.Equal(t, "john", id.Subject)
	assert.Empty(t, id.Roles)
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestIdentity_WithRemoteIP(t *testing.T) {
	ip := net.ParseIP("192.168.1.100")
	id := New("susan", []string{"ROLE_EMPLOYEE"}, MethodBasic).WithRemoteIP(ip)

	assert.Equal(t, ip, id.RemoteIP)
	assert.Equal(t, MethodBasic, id.Method)
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	_, ok := Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", Subject(ctx))

	ctx = Set(ctx, New("susan", nil, MethodBasic))

	id, ok := Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "susan", id.Subject)
	assert.Equal(t, "susan", Subject(ctx))
}
