// Package httpapi exposes the calendar store over HTTP.
//
// Every route under /api/v1/calendar requires a bearer JWT whose email
// claim is resolved to a user id once per request; handlers only ever see
// that id.
package httpapi
