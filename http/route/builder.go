package route

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/infer"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/resource"
)

// A Builder declares the conventional routes a resource supports,
// one method per conventional Action, and produces the ordered
// []*Route a Router dispatches against.
//
// Errors accumulate while declaring; Build surfaces all of them at once.
type Builder struct {
	res    *resource.Resource
	doer   *resp.Responder
	routes []*Route
	errs   []error
}

// NewBuilder constructs a Builder declaring routes for res,
// responding through doer.
func NewBuilder(res *resource.Resource, doer *resp.Responder) *Builder {
	return &Builder{res: res, doer: doer}
}

// Show declares GET /{resource}/:id.
func (b *Builder) Show(opts ...RouteOpt) *Builder {
	return b.add(ActionShow, http.MethodGet, "/"+b.res.PathComponent()+"/:id", opts...)
}

// New declares GET /{resource}/new.
func (b *Builder) New(opts ...RouteOpt) *Builder {
	return b.add(ActionNew, http.MethodGet, "/"+b.res.PathComponent()+"/new", opts...)
}

// Index declares GET /{resource}.
func (b *Builder) Index(opts ...RouteOpt) *Builder {
	return b.add(ActionIndex, http.MethodGet, "/"+b.res.PathComponent(), opts...)
}

// Create declares POST /{resource}.
//
// By default a successful create redirects to the record's show location
// and a switchback.ErrNotValid delegate failure falls back to the new action.
func (b *Builder) Create(opts ...RouteOpt) *Builder {
	return b.add(ActionCreate, http.MethodPost, "/"+b.res.PathComponent(), opts...)
}

// Edit declares GET /{resource}/:id/edit.
func (b *Builder) Edit(opts ...RouteOpt) *Builder {
	return b.add(ActionEdit, http.MethodGet, "/"+b.res.PathComponent()+"/:id/edit", opts...)
}

// Update declares PUT /{resource}/:id.
//
// By default a successful update redirects to the record's show location
// and a switchback.ErrNotValid delegate failure falls back to the edit action.
func (b *Builder) Update(opts ...RouteOpt) *Builder {
	return b.add(ActionUpdate, http.MethodPut, "/"+b.res.PathComponent()+"/:id", opts...)
}

// Destroy declares DELETE /{resource}/:id.
//
// By default a successful destroy redirects to the collection's index location.
func (b *Builder) Destroy(opts ...RouteOpt) *Builder {
	return b.add(ActionDestroy, http.MethodDelete, "/"+b.res.PathComponent()+"/:id", opts...)
}

// Resources declares all seven conventional routes with their defaults.
//
// Routes register in an order keeping literal paths out of the shadow of
// variable ones, so GET /{resource}/new reaches the new action,
// not the show action's :id segment.
func (b *Builder) Resources() *Builder {
	return b.New().Index().Show().Create().Edit().Update().Destroy()
}

// Build validates the declared routes as a set and returns them.
//
// An invalid set - duplicate criteria, fallbacks naming missing actions
// or a route's own action - is a build-time failure;
// no request is ever dispatched against one.
func (b *Builder) Build() ([]*Route, error) {
	err := joinErrs(b.errs)
	if err != nil {
		return nil, err
	}

	if err := Validate(b.routes); err != nil {
		return nil, err
	}

	return b.routes, nil
}

// A RouteOpt overrides a conventional route's defaults while declaring it.
type RouteOpt func(*routeCfg)

type routeCfg struct {
	delegateFn     any
	delegateParams []string
	method         string
	methodParams   []string
	redirect       *Action
	rescues        []Fallback
	requires       []string
	success        string
}

// WithDelegate sets the delegate func the route invokes
// and the names of its parameters, in order.
func WithDelegate(fn any, params ...string) RouteOpt {
	return func(cfg *routeCfg) {
		cfg.delegateFn = fn
		cfg.delegateParams = params
	}
}

// WithDelegateMethod overrides the conventional method name resolved
// on the record prototype, and the names of its parameters.
func WithDelegateMethod(name string, params ...string) RouteOpt {
	return func(cfg *routeCfg) {
		cfg.method = name
		cfg.methodParams = params
	}
}

// WithRedirect makes the route respond with a redirect
// to the target action's location instead of rendering a template.
func WithRedirect(a Action) RouteOpt {
	return func(cfg *routeCfg) {
		cfg.redirect = &a
	}
}

// WithRescue appends a fallback re-dispatching to the action
// when the delegate fails with an error wrapping kind.
func WithRescue(kind error, a Action) RouteOpt {
	return func(cfg *routeCfg) {
		cfg.rescues = append(cfg.rescues, Fallback{Kind: kind, Action: a})
	}
}

// WithRequired demands the named predicates, as declared on the resource,
// hold for the route to match.
func WithRequired(names ...string) RouteOpt {
	return func(cfg *routeCfg) {
		cfg.requires = append(cfg.requires, names...)
	}
}

// WithSuccessFlash sets a success flash in the session when a
// redirecting route responds.
func WithSuccessFlash(msg string) RouteOpt {
	return func(cfg *routeCfg) {
		cfg.success = msg
	}
}

// Validate checks a route list as a set:
// no two routes may share a Criteria identity,
// and every fallback must name a buildable target -
// an action registered for the same resource other than the route's own.
func Validate(routes []*Route) error {
	seen := make(map[string]Action, len(routes))
	for _, rt := range routes {
		key := rt.Criteria.Key()
		if prior, ok := seen[key]; ok {
			return fmt.Errorf(
				"%w: %q and %q both register %s %s",
				ErrDuplicateRoute,
				prior,
				rt.Action,
				rt.Criteria.Method,
				rt.Criteria.Path,
			)
		}

		seen[key] = rt.Action
	}

	for _, rt := range routes {
		for _, fb := range rt.fallbacks {
			if fb.Action == rt.Action {
				return fmt.Errorf("%w: %q falls back to itself", ErrBadFallback, rt.Action)
			}

			if find(routes, rt.res, fb.Action) == nil {
				return fmt.Errorf(
					"%w: %q falls back to %q, which is not registered for %s",
					ErrBadFallback,
					rt.Action,
					fb.Action,
					rt.res.Name(),
				)
			}
		}
	}

	return nil
}

// find returns the first route registered under the action for the resource.
func find(routes []*Route, res *resource.Resource, a Action) *Route {
	for _, rt := range routes {
		if rt.res == res && rt.Action == a {
			return rt
		}
	}

	return nil
}

func (b *Builder) add(a Action, method, pathTmpl string, opts ...RouteOpt) *Builder {
	var cfg routeCfg
	for _, opt := range opts {
		opt(&cfg)
	}

	crit := NewCriteria(method, pathTmpl)
	for _, name := range cfg.requires {
		for _, fn := range b.res.Requirements(name) {
			crit = crit.Require(name, fn)
		}
	}

	var d Delegate
	var err error
	if cfg.delegateFn != nil {
		d, err = NewDelegate(fmt.Sprintf("%T#%s", b.res.Record(), a), cfg.delegateFn, cfg.delegateParams...)
	} else {
		d, err = conventionalDelegate(b.res.Record(), a, cfg.method, cfg.methodParams)
	}
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}

	allowed := map[string]bool{infer.ParamsKey: true, infer.PathKey: true}
	for _, v := range crit.Path.Vars() {
		allowed[v] = true
	}
	for _, p := range d.Params() {
		if !allowed[p] {
			b.errs = append(b.errs, fmt.Errorf(
				"%w: action %q delegate %s declares parameter %q with no inference source on %s",
				switchback.ErrBadConfig,
				a,
				d.Name(),
				p,
				crit.Path,
			))
		}
	}

	target := cfg.redirect
	if target == nil {
		target = defaultRedirect(a)
	}

	var responder Responder
	if target != nil {
		responder = redirectResponder{doer: b.doer, res: b.res, target: *target, success: cfg.success}
	} else {
		responder = templateResponder{doer: b.doer, res: b.res, action: a}
	}

	// NOTE(dlk): user rescues come first so they win over the defaults.
	fallbacks := cfg.rescues
	if fb, ok := defaultFallback(a); ok {
		fallbacks = append(fallbacks, fb)
	}

	b.routes = append(b.routes, &Route{
		Action:    a,
		Criteria:  crit,
		res:       b.res,
		delegate:  d,
		responder: responder,
		fallbacks: fallbacks,
	})

	return b
}

// defaultRedirect returns the action whose location a successful
// dispatch redirects to, or nil for template-rendering actions.
func defaultRedirect(a Action) *Action {
	switch a {
	case ActionCreate, ActionUpdate:
		show := ActionShow
		return &show
	case ActionDestroy:
		index := ActionIndex
		return &index
	default:
		return nil
	}
}

// defaultFallback pairs the form-submitting actions with their form actions
// for the default validation-error recovery.
func defaultFallback(a Action) (Fallback, bool) {
	switch a {
	case ActionCreate:
		return Fallback{Kind: switchback.ErrNotValid, Action: ActionNew}, true
	case ActionUpdate:
		return Fallback{Kind: switchback.ErrNotValid, Action: ActionEdit}, true
	default:
		return Fallback{}, false
	}
}

func joinErrs(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	err := errs[0]
	for _, e := range errs[1:] {
		err = fmt.Errorf("%w; %s", err, e)
	}

	return err
}
