package resource

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/infer"
)

// A Requirement is a named predicate a route demands hold,
// beyond its method and path, for a request to match.
//
// A Requirement receives the request it is evaluated against;
// it must not retain it.
type Requirement func(r *http.Request) bool

// A PresenterFunc wraps a record - or, for plural actions, records -
// with whatever a view needs beyond the record itself.
// It receives the request's inference sources so presenters can read
// path- and query-derived values too.
type PresenterFunc func(record any, src infer.Sources) any

// Identifiable is the contract for records a redirect response
// derives its Location from.
type Identifiable interface {
	GetID() uint
}

// A Resource identifies a record prototype and the presenters for it.
// Immutable once constructed; shared read-only by every route built for it.
type Resource struct {
	name          string
	record        any
	one           PresenterFunc
	many          PresenterFunc
	requirements  map[string]Requirement
	pathComponent string
}

// New constructs a *Resource named name around the record prototype.
//
// The prototype's methods provide the conventional delegates routes invoke;
// its concrete type is never instantiated by switchback itself.
func New(name string, record any, opts ...Opt) (*Resource, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: resource requires a name", switchback.ErrBadConfig)
	}

	if record == nil {
		return nil, fmt.Errorf("%w: resource %q requires a record prototype", switchback.ErrBadConfig, name)
	}

	res := &Resource{
		name:          name,
		record:        record,
		requirements:  make(map[string]Requirement),
		pathComponent: pathComponent(name),
	}
	for _, opt := range opts {
		opt(res)
	}

	if res.one == nil {
		res.one = func(record any, _ infer.Sources) any { return record }
	}

	if res.many == nil {
		res.many = func(record any, _ infer.Sources) any { return record }
	}

	return res, nil
}

// Name returns the name the Resource was constructed with.
func (res *Resource) Name() string { return res.name }

// Record returns the record prototype.
func (res *Resource) Record() any { return res.record }

// PathComponent returns the lowercase, underscore-separated, pluralized
// path segment derived from the Resource's name, e.g., WidgetPart => widget_parts.
func (res *Resource) PathComponent() string { return res.pathComponent }

// PresentOne wraps the record in the singular presenter.
func (res *Resource) PresentOne(record any, src infer.Sources) any { return res.one(record, src) }

// PresentMany wraps the records in the plural presenter.
func (res *Resource) PresentMany(records any, src infer.Sources) any { return res.many(records, src) }

// Requirements resolves the declared Requirement for each name,
// returning the subset the Resource actually declares.
// An undeclared name resolves to nothing; it is vacuously satisfied.
func (res *Resource) Requirements(names ...string) []Requirement {
	var reqs []Requirement
	for _, name := range names {
		if req, ok := res.requirements[name]; ok {
			reqs = append(reqs, req)
		}
	}

	return reqs
}

// An Opt configures a *Resource under construction.
type Opt func(*Resource)

// WithOne sets the presenter wrapping a single record.
func WithOne(fn PresenterFunc) Opt {
	return func(res *Resource) {
		res.one = fn
	}
}

// WithMany sets the presenter wrapping a collection of records.
func WithMany(fn PresenterFunc) Opt {
	return func(res *Resource) {
		res.many = fn
	}
}

// WithPathComponent overrides the path segment derived from the Resource's
// name, for irregular plurals the naive derivation mangles, e.g., Cactus.
func WithPathComponent(pc string) Opt {
	return func(res *Resource) {
		res.pathComponent = pc
	}
}

// WithRequirement declares the named Requirement so routes can demand it by name.
func WithRequirement(name string, fn Requirement) Opt {
	return func(res *Resource) {
		res.requirements[name] = fn
	}
}

// pathComponent lowercases name, separating words with underscores
// and naively pluralizing the result.
func pathComponent(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	out := b.String()
	if !strings.HasSuffix(out, "s") {
		out += "s"
	}

	return out
}
