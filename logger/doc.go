/*

Package logger standardizes log messages emitted by a switchback app.

Construct a Logger with New and hand it to the components needing one.
Messages route through a single sink. When the SENTRY_DSN environment
variable is set, error-level and above messages ship to Sentry as well.

*/
package logger
