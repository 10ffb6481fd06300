/*

Package resource describes the entities a switchback app dispatches requests for.

A Resource pairs a record prototype with the presenters wrapping records for
rendering and the named Requirement predicates its routes may demand.
A Resource is built once at startup and read concurrently by every route
constructed for it.

*/
package resource
