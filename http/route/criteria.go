package route

import (
	"net/http"
	"sort"
	"strings"

	"github.com/xy-planning-network/switchback/http/infer"
	"github.com/xy-planning-network/switchback/resource"
)

// A Path is a route's path template,
// whose "/"-delimited segments are either literal (widgets)
// or variable (:id).
type Path struct {
	raw      string
	segments []string
}

// NewPath constructs a Path from the raw template.
func NewPath(raw string) Path {
	return Path{raw: raw, segments: infer.SplitPath(raw)}
}

// Match asserts whether the candidate path satisfies the template:
// equal segment counts, literal segments equal,
// variable segments matching any non-empty candidate segment.
//
// A missing trailing segment is a non-match, never a wildcard.
func (p Path) Match(candidate string) bool {
	actual := infer.SplitPath(candidate)
	if len(actual) != len(p.segments) {
		return false
	}

	for i, seg := range p.segments {
		if strings.HasPrefix(seg, infer.VarPrefix) {
			if actual[i] == "" {
				return false
			}
			continue
		}

		if seg != actual[i] {
			return false
		}
	}

	return true
}

// String returns the raw template.
//
// String implements fmt.Stringer.
func (p Path) String() string { return p.raw }

// Vars lists the variable names the template declares, in order.
func (p Path) Vars() []string { return infer.Vars(p.raw) }

// A requirement pairs a resolved Requirement predicate with its declared name.
type requirement struct {
	name string
	fn   resource.Requirement
}

// Criteria decides whether a request matches a route:
// exact method equality, Path satisfaction
// and every required predicate independently holding.
type Criteria struct {
	Method string
	Path   Path

	requires []requirement
}

// NewCriteria constructs a Criteria matching the method and path template.
func NewCriteria(method, path string) Criteria {
	return Criteria{Method: method, Path: NewPath(path)}
}

// Require returns a copy of the Criteria additionally demanding the named predicate hold.
func (c Criteria) Require(name string, fn resource.Requirement) Criteria {
	reqs := make([]requirement, len(c.requires), len(c.requires)+1)
	copy(reqs, c.requires)
	c.requires = append(reqs, requirement{name: name, fn: fn})
	return c
}

// Match asserts whether the request satisfies every part of the Criteria.
func (c Criteria) Match(r *http.Request) bool {
	if r.Method != c.Method {
		return false
	}

	if !c.Path.Match(r.URL.Path) {
		return false
	}

	for _, req := range c.requires {
		if !req.fn(r) {
			return false
		}
	}

	return true
}

// Key derives the identity used to reject duplicate routes at build time.
// Two Criteria with the same method, template and requirement names collide
// regardless of the order requirements were declared in.
func (c Criteria) Key() string {
	names := make([]string, 0, len(c.requires))
	for _, req := range c.requires {
		names = append(names, req.name)
	}
	sort.Strings(names)

	return c.Method + " " + c.Path.String() + " " + strings.Join(names, ",")
}
