package infer

import (
	"fmt"
	"reflect"

	"github.com/xy-planning-network/switchback"
)

var errInterface = reflect.TypeOf((*error)(nil)).Elem()

// A Projection binds a delegate func to its declared parameter names.
// Construct one with NewProjection at route-build time;
// a zero-value Projection is not usable.
type Projection struct {
	fn     reflect.Value
	params []string
}

// NewProjection validates fn against the declared parameter names
// and returns the Projection binding the two.
//
// fn must be a non-variadic func returning a record and an error,
// with exactly one parameter per declared name, in order.
// Misshapen delegates are a configuration error caught here,
// before any request is served.
func NewProjection(fn any, params ...string) (Projection, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return Projection{}, fmt.Errorf("%w: delegate must be a func, is %T", switchback.ErrNotValid, fn)
	}

	t := v.Type()
	if t.IsVariadic() {
		return Projection{}, fmt.Errorf("%w: variadic delegates are not supported", switchback.ErrNotValid)
	}

	if t.NumIn() != len(params) {
		return Projection{}, fmt.Errorf(
			"%w: delegate takes %d args, %d names declared",
			switchback.ErrNotValid,
			t.NumIn(),
			len(params),
		)
	}

	if t.NumOut() != 2 || !t.Out(1).Implements(errInterface) {
		return Projection{}, fmt.Errorf("%w: delegate must return (record, error)", switchback.ErrNotValid)
	}

	return Projection{fn: v, params: params}, nil
}

// Params returns the declared parameter names, in order.
func (p Projection) Params() []string { return p.params }

// Call projects src onto the delegate's parameter list and invokes it.
//
// Each declared name is looked up in src; a missing name returns
// ErrMissingSource, never a silent zero value.
// A source value is converted to the parameter's type when possible;
// an integer source never converts to a string parameter,
// since that yields a rune, not a decimal.
func (p Projection) Call(src Sources) (any, error) {
	t := p.fn.Type()
	args := make([]reflect.Value, len(p.params))
	for i, name := range p.params {
		val, ok := src[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingSource, name)
		}

		in := t.In(i)
		vv := reflect.ValueOf(val)
		switch {
		case !vv.IsValid():
			args[i] = reflect.Zero(in)
		case vv.Type().AssignableTo(in):
			args[i] = vv
		case vv.Type().ConvertibleTo(in) && !runeConversion(vv.Type(), in):
			args[i] = vv.Convert(in)
		default:
			return nil, fmt.Errorf("%w: source %q is %T, delegate wants %s", switchback.ErrNotValid, name, val, in)
		}
	}

	out := p.fn.Call(args)
	record := out[0].Interface()
	if e := out[1].Interface(); e != nil {
		return record, e.(error)
	}

	return record, nil
}

// runeConversion asserts whether converting from into to is Go's
// integer-to-string conversion, which yields a one-rune string
// rather than a decimal rendering of the value.
func runeConversion(from, to reflect.Type) bool {
	if to.Kind() != reflect.String {
		return false
	}

	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}
