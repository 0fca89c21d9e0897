package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	noRoles       = []string{}
	employeeRoles = []string{RoleEmployee}
	adminRoles    = []string{RoleAdmin}
	bothRoles     = []string{RoleEmployee, RoleAdmin}
	unknownRoles  = []string{"ROLE_VISITOR"}
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"ROLE_ADMIN", "ROLE_ADMIN"},
		{"SCOPE_ROLE_ADMIN", "ROLE_ADMIN"},
		{"admin", "ROLE_ADMIN"},
		{" role_employee ", "ROLE_EMPLOYEE"},
		{"SCOPE_EMPLOYEE", "ROLE_EMPLOYEE"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRole(tt.in))
		})
	}
}

func TestNormalizeRoles_DropsDuplicates(t *testing.T) {
	got := NormalizeRoles([]string{"admin", "SCOPE_ROLE_ADMIN", "", "ROLE_EMPLOYEE"})
	assert.Equal(t, []string{RoleAdmin, RoleEmployee}, got)
}

func TestDefault_Evaluate(t *testing.T) {
	p := Default()

	tests := []struct {
		name          string
		method        string
		path          string
		roles         []string
		authenticated bool
		expected      Decision
	}{
		// API reads
		{"employee reads live apod", http.MethodGet, "/api/apod", employeeRoles, true, Allow},
		{"admin reads live apod", http.MethodGet, "/api/apod", adminRoles, true, Allow},
		{"unknown role reads live apod", http.MethodGet, "/api/apod", unknownRoles, true, Forbidden},
		{"anonymous reads live apod", http.MethodGet, "/api/apod", nil, false, Unauthenticated},
		{"employee lists apods", http.MethodGet, "/api/apods", employeeRoles, true, Allow},
		{"employee saves apod", http.MethodGet, "/api/save-apod", employeeRoles, true, Allow},
		{"employee reads by id", http.MethodGet, "/api/apod/{id}", employeeRoles, true, Allow},
		{"employee reads rover", http.MethodGet, "/api/rover/{rover}/{earthDate}/{camera}", employeeRoles, true, Allow},
		{"no roles reads rover", http.MethodGet, "/api/rover/{rover}/{earthDate}/{camera}", noRoles, true, Forbidden},

		// API writes
		{"employee updates", http.MethodPut, "/api/apod/{id}", employeeRoles, true, Forbidden},
		{"employee deletes", http.MethodDelete, "/api/apod/{id}", employeeRoles, true, Forbidden},
		{"employee deletes all", http.MethodDelete, "/api/apods", employeeRoles, true, Forbidden},
		{"admin updates", http.MethodPut, "/api/apod/{id}", adminRoles, true, Allow},
		{"admin deletes", http.MethodDelete, "/api/apod/{id}", bothRoles, true, Allow},
		{"anonymous deletes", http.MethodDelete, "/api/apod/{id}", nil, false, Unauthenticated},

		// Pages
		{"employee home page", http.MethodGet, "/nasa/home-page", employeeRoles, true, Allow},
		{"employee mars apod", http.MethodGet, "/nasa/mars-apod", employeeRoles, true, Allow},
		{"employee mars rover", http.MethodGet, "/nasa/mars-rover", employeeRoles, true, Allow},
		{"employee list page", http.MethodGet, "/nasa/list-apods", employeeRoles, true, Forbidden},
		{"admin list page", http.MethodGet, "/nasa/list-apods", adminRoles, true, Allow},
		{"employee delete page", http.MethodPost, "/nasa/delete-apod", employeeRoles, true, Forbidden},

		// Public
		{"anonymous authenticate", http.MethodPost, "/authenticate", nil, false, Allow},
		{"anonymous login page", http.MethodGet, "/login", nil, false, Allow},
		{"anonymous status", http.MethodGet, "/", nil, false, Allow},
		{"anonymous docs", http.MethodGet, "/docs/openapi.yaml", nil, false, Allow},
		{"anonymous css", http.MethodGet, "/css/", nil, false, Allow},
		{"anonymous image", http.MethodGet, "/images/", nil, false, Allow},

		// Unlisted routes
		{"any principal whoami", http.MethodGet, "/whoami", noRoles, true, Allow},
		{"anonymous whoami", http.MethodGet, "/whoami", nil, false, Unauthenticated},
		{"wrong method on authenticate", http.MethodDelete, "/authenticate", nil, false, Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Evaluate(tt.method, tt.path, tt.roles, tt.authenticated)
			assert.Equal(t, tt.expected, got, "got %s", got)
		})
	}
}

func TestDefault_AdminHoldsEveryStaffRoute(t *testing.T) {
	for _, r := range Default().Rules() {
		if r.Access != Restricted {
			continue
		}
		assert.True(t, r.Permits(adminRoles), "admin denied on %s", r)
	}
}

func TestDefault_NonAdminNeverWrites(t *testing.T) {
	p := Default()
	roleSets := [][]string{nil, noRoles, employeeRoles, unknownRoles, {"SCOPE_ROLE_EMPLOYEE", "visitor"}}

	for _, roles := range roleSets {
		for _, method := range []string{http.MethodPut, http.MethodDelete} {
			assert.Equal(t, Forbidden, p.Evaluate(method, "/api/apod/{id}", roles, true),
				"%s with roles %v", method, roles)
		}
	}
}

func TestRule_PermitsScopedRoles(t *testing.T) {
	r := RequireAny(http.MethodGet, "/api/apod", Staff...)

	assert.True(t, r.Permits([]string{"SCOPE_ROLE_EMPLOYEE"}))
	assert.True(t, r.Permits([]string{"employee"}))
	assert.False(t, r.Permits([]string{"SCOPE_ROLE_VISITOR"}))
}

func TestPolicy_LaterRuleWins(t *testing.T) {
	p := New(
		RequireAny(http.MethodGet, "/x", AdminOnly...),
		PublicRoute(http.MethodGet, "/x"),
	)
	assert.True(t, p.IsPublic(http.MethodGet, "/x"))
}

func TestPolicy_AnyMethodRule(t *testing.T) {
	p := New(Rule{Path: "/health", Access: Public})

	assert.True(t, p.IsPublic(http.MethodGet, "/health"))
	assert.True(t, p.IsPublic(http.MethodHead, "/health"))
	assert.False(t, p.IsPublic(http.MethodGet, "/healthz"))
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, ClassWeb, ClassOf("/nasa/home-page"))
	assert.Equal(t, ClassAPI, ClassOf("/api/apod"))
	assert.Equal(t, ClassAPI, ClassOf("/authenticate"))
	assert.Equal(t, ClassAPI, ClassOf("/nasa"))
}

func TestRule_String(t *testing.T) {
	assert.Equal(t, "DELETE /api/apod/{id} -> ROLE_ADMIN", RequireAny(http.MethodDelete, "/api/apod/{id}", "admin").String())
	assert.Equal(t, "* /css/* -> public", PublicPrefix("/css/").String())
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "Decision(99)", Decision(99).String())
	assert.False(t, Decision(99).IsADecision())

	d, err := DecisionString("Forbidden")
	assert.NoError(t, err)
	assert.Equal(t, Forbidden, d)
	_, err = DecisionString("maybe")
	assert.Error(t, err)
}

func TestAccess_String(t *testing.T) {
	assert.Equal(t, []string{"authenticated", "public", "restricted"}, AccessStrings())
	assert.Equal(t, "Access(99)", Access(99).String())
	assert.True(t, Restricted.IsAAccess())
}
