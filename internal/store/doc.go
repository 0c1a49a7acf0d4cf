// Package store defines the persistence contract for tasks.
//
// It contains the TaskStore interface, the sentinel errors shared by both
// backend implementations, and the DBTX abstraction used by the relational
// implementation. Concrete implementations live in
// internal/platform/postgres and internal/platform/mongodb.
package store
