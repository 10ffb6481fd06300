/*

Package route builds and serves the conventional REST routes for a resource.

A Builder declares which of the seven conventional actions
(show, new, index, create, edit, update, destroy) a resource supports and
produces the ordered []*Route a Router dispatches against.

Dispatching a request runs through these states:

	matching -> dispatching -> responded
	                        -> recovering -> responded
	                        -> failed

A Route composes the Criteria a request must meet, the Delegate producing
the record acted upon, the Responder writing the outbound response, and an
ordered fallback list mapping delegate error kinds to the alternate action
re-dispatched when the delegate fails. Recovery is bounded to a single hop:
a recovering dispatch that fails again propagates its error.

Routes are built once at startup and are immutable;
a Router reads them concurrently without locking.

*/
package route
