package route

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/infer"
)

// A Delegate is the record-type method a route invokes
// to produce the record acted upon.
//
// A Delegate binds a concrete func to the names of its parameters
// at build time; the names are the contract with the per-request
// inference sources.
type Delegate struct {
	name string
	proj infer.Projection
}

// NewDelegate binds fn to its declared parameter names under name.
//
// fn must be a non-variadic func returning (record, error)
// with one parameter per declared name; anything else errors here,
// at build time, not at dispatch.
func NewDelegate(name string, fn any, params ...string) (Delegate, error) {
	proj, err := infer.NewProjection(fn, params...)
	if err != nil {
		return Delegate{}, fmt.Errorf("delegate %q: %w", name, err)
	}

	return Delegate{name: name, proj: proj}, nil
}

// conventionalDelegate resolves the method conventionally named for the action
// on the record prototype, validating it eagerly.
func conventionalDelegate(record any, a Action, method string, params []string) (Delegate, error) {
	if method == "" {
		method, params = a.delegateDefaults()
	}

	m := reflect.ValueOf(record).MethodByName(method)
	if !m.IsValid() {
		return Delegate{}, fmt.Errorf(
			"%w: %T has no method %q to delegate action %q to",
			switchback.ErrBadConfig,
			record,
			method,
			a,
		)
	}

	return NewDelegate(fmt.Sprintf("%T.%s", record, method), m.Interface(), params...)
}

// Name returns the name the Delegate was registered under.
func (d Delegate) Name() string { return d.name }

// Params returns the declared parameter names, in order.
func (d Delegate) Params() []string { return d.proj.Params() }

// Call builds fresh inference sources for r against the route's path template,
// projects them onto the delegate's parameter list and invokes it.
//
// A delegate-raised error propagates untouched alongside the sources;
// recovery is the Router's concern, never the Delegate's.
func (d Delegate) Call(r *http.Request, template string) (any, infer.Sources, error) {
	src, err := infer.NewSources(r, template)
	if err != nil {
		return nil, nil, err
	}

	record, err := d.proj.Call(src)
	return record, src, err
}
