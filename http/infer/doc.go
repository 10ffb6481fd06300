/*

Package infer derives the arguments a route's delegate needs from nothing
but the request and the route's templated path.

A Sources is the per-request bag of named values available for binding:
the submitted params, the raw path, and one integer-coerced entry per
":variable" segment in the route's path template.

A Projection binds a delegate func to the names of its parameters.
At build time, NewProjection validates the func's shape against the
declared names with reflect; at dispatch time, Projection.Call looks each
name up in a Sources and invokes the func. The delegate's own parameter
list is thereby the single source of truth for what data a route needs.

*/
package infer
