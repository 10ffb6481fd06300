/*

Package session stores short-lived state - most importantly, Flash messages -
across the redirect-heavy request cycle a switchback app produces.

Sessions are backed by cookies through gorilla/sessions.
A Session is stashed in a request's context under switchback.SessionKey
by the Router when a store is configured;
responders pull it back out to set and render flashes.

*/
package session
