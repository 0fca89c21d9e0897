package policy

import "strings"

const (
	RoleEmployee = "ROLE_EMPLOYEE"
	RoleAdmin    = "ROLE_ADMIN"
)

// Staff is the role set for routes open to employees and admins.
var Staff = []string{RoleEmployee, RoleAdmin}

// AdminOnly is the role set for routes restricted to admins.
var AdminOnly = []string{RoleAdmin}

// NormalizeRole maps the spellings a role can arrive in ("admin",
// "ROLE_ADMIN", "SCOPE_ROLE_ADMIN") to the canonical "ROLE_ADMIN" form.
func NormalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	if r == "" {
		return ""
	}
	r = strings.TrimPrefix(r, "SCOPE_")
	if !strings.HasPrefix(r, "ROLE_") {
		r = "ROLE_" + r
	}
	return r
}

// NormalizeRoles normalizes every role and drops empty and duplicate entries.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]bool, len(roles))
	for _, role := range roles {
		r := NormalizeRole(role)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
