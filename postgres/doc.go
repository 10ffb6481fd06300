/*
Package postgres manages our database connection. As part of the connection process, we also
ensure that all migrations have been run on the proper database. The situation where the database
is simply a target for some testing has been considered as well. In this scenario, we are dropping
the public schema.

Store provides the conventional record operations a resource's delegates reach for -
FindByID, All, Create, Update, Delete - translating database failures into switchback error kinds
so routes can recover from them.
*/
package postgres
