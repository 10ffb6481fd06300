/*
The middleware package defines what a middleware is in switchback and a set of basic middlewares.

The available middlewares are:
- ForceHTTPS
- LogRequest
- RateLimit

These wrap the dispatching route.Router, handling the concerns a request passes through
before convention-driven routing takes over.
*/
package middleware
