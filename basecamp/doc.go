/*
Package basecamp boots a switchback app: it reads configuration from the environment,
assembles the logger, template parser, responder, session store and dispatching router
into one another, and runs the web server until signalled to stop.

Construct a *Basecamp with New, handing it the routes built with route.NewBuilder,
then call Embark.
*/
package basecamp
