package policy

import (
	"fmt"
	"sort"
	"strings"
)

//go:generate go run github.com/dmarkham/enumer -type Access -transform lower -output access.gen.go
//go:generate go run github.com/dmarkham/enumer -type Decision -transform lower -output decision.gen.go

// Access is the kind of check a Rule performs.
type Access int

const (
	Authenticated Access = iota
	Public
	Restricted
)

// Decision is the outcome of evaluating a request against the policy.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

// Class decides how a denied request is answered.
type Class int

const (
	// ClassAPI routes answer denials with a JSON error record.
	ClassAPI Class = iota
	// ClassWeb routes answer denials with a redirect to a page.
	ClassWeb
)

// WebPrefix is the path prefix of the page routes.
const WebPrefix = "/nasa/"

// ClassOf returns the route class of a path template.
func ClassOf(path string) Class {
	if strings.HasPrefix(path, WebPrefix) {
		return ClassWeb
	}
	return ClassAPI
}

// Rule is one row of the policy table. An empty Method matches any method.
// A Prefix rule matches every path template starting with Path.
type Rule struct {
	Method string
	Path   string
	Prefix bool
	Access Access
	Roles  []string
}

func (r Rule) String() string {
	method := r.Method
	if method == "" {
		method = "*"
	}
	path := r.Path
	if r.Prefix {
		path += "*"
	}
	if r.Access == Restricted {
		return fmt.Sprintf("%s %s -> %s", method, path, strings.Join(r.Roles, "|"))
	}
	return fmt.Sprintf("%s %s -> %s", method, path, r.Access)
}

// Permits reports whether roles satisfy the rule's any-of role set.
func (r Rule) Permits(roles []string) bool {
	if r.Access != Restricted {
		return true
	}
	for _, have := range NormalizeRoles(roles) {
		for _, want := range r.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// PublicRoute allows method+path without credentials.
func PublicRoute(method, path string) Rule {
	return Rule{Method: method, Path: path, Access: Public}
}

// PublicPrefix allows every path template under prefix without credentials.
func PublicPrefix(prefix string) Rule {
	return Rule{Path: prefix, Prefix: true, Access: Public}
}

// RequireAny restricts method+path to principals holding one of roles.
func RequireAny(method, path string, roles ...string) Rule {
	return Rule{Method: method, Path: path, Access: Restricted, Roles: NormalizeRoles(roles)}
}

// Policy is an immutable lookup table of Rules. It is safe for concurrent use.
type Policy struct {
	exact    map[string]Rule
	prefixes []Rule
}

// New builds a Policy. A later rule for the same method and path replaces an
// earlier one.
func New(rules ...Rule) *Policy {
	p := &Policy{exact: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		if r.Prefix {
			p.prefixes = append(p.prefixes, r)
			continue
		}
		p.exact[ruleKey(r.Method, r.Path)] = r
	}
	return p
}

func ruleKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Rule returns the rule governing method+path. Unlisted routes get an
// Authenticated rule.
func (p *Policy) Rule(method, path string) Rule {
	if r, ok := p.exact[ruleKey(method, path)]; ok {
		return r
	}
	if r, ok := p.exact[ruleKey("", path)]; ok {
		return r
	}
	for _, r := range p.prefixes {
		if (r.Method == "" || strings.EqualFold(r.Method, method)) && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return Rule{Method: method, Path: path, Access: Authenticated}
}

// Rules returns every exact rule sorted by path and method, followed by the
// prefix rules.
func (p *Policy) Rules() []Rule {
	rules := make([]Rule, 0, len(p.exact)+len(p.prefixes))
	for _, r := range p.exact {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Path != rules[j].Path {
			return rules[i].Path < rules[j].Path
		}
		return rules[i].Method < rules[j].Method
	})
	return append(rules, p.prefixes...)
}

// IsPublic reports whether method+path needs no credentials.
func (p *Policy) IsPublic(method, path string) bool {
	return p.Rule(method, path).Access == Public
}

// Evaluate decides a request. authenticated says whether a principal was
// resolved; roles are that principal's roles.
func (p *Policy) Evaluate(method, path string, roles []string, authenticated bool) Decision {
	r := p.Rule(method, path)
	if r.Access == Public {
		return Allow
	}
	if !authenticated {
		return Unauthenticated
	}
	if !r.Permits(roles) {
		return Forbidden
	}
	return Allow
}
