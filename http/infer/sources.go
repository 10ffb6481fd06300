package infer

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	// ParamsKey names the Sources entry holding the request's submitted form and query values.
	ParamsKey = "params"

	// PathKey names the Sources entry holding the request's raw path.
	PathKey = "path"

	// VarPrefix marks a path template segment as a variable.
	VarPrefix = ":"
)

// A Sources maps names to the values available for binding delegate arguments.
// A Sources is computed fresh for each dispatch and never shared between requests.
type Sources map[string]any

// NewSources builds the Sources for r matched against the route's path template.
//
// Template segments prefixed with ":" record the corresponding candidate
// segment under the variable's name after coercing it to an int.
// A segment that does not parse as an integer returns ErrTypeConversion.
func NewSources(r *http.Request, template string) (Sources, error) {
	src := make(Sources)

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: cannot parse form: %s", ErrTypeConversion, err)
	}

	src[ParamsKey] = r.Form
	src[PathKey] = r.URL.Path

	actual := SplitPath(r.URL.Path)
	for i, seg := range SplitPath(template) {
		if !strings.HasPrefix(seg, VarPrefix) || i >= len(actual) {
			continue
		}

		name := strings.TrimPrefix(seg, VarPrefix)
		n, err := strconv.Atoi(actual[i])
		if err != nil {
			return nil, fmt.Errorf("%w: path segment %q is not an integer for %q", ErrTypeConversion, actual[i], name)
		}

		src[name] = n
	}

	return src, nil
}

// Vars lists the variable names declared in the path template, in order.
func Vars(template string) []string {
	var names []string
	for _, seg := range SplitPath(template) {
		if strings.HasPrefix(seg, VarPrefix) {
			names = append(names, strings.TrimPrefix(seg, VarPrefix))
		}
	}

	return names
}

// SplitPath splits a path or path template into its "/"-delimited segments,
// eliding the empty leading segment of a rooted path.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}

	return strings.Split(path, "/")
}
