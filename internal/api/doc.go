// Package api contains the HTTP handlers for the task service, the
// canonical external task representation, and the mapping from store errors
// to HTTP status codes and stable client-facing messages.
package api
