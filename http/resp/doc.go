/*

Package resp writes structured responses to HTTP requests.

A single Responder is set up once for an application and reused by every
route; per-request particulars - status code, data, templates, redirect
destinations - arrive through Fn functional options.

*/
package resp
