// Package postgres provides the relational implementation of
// store.TaskStore, backed by PostgreSQL through database/sql and the pgx
// stdlib driver. Schema migrations are embedded and applied with goose.
package postgres
