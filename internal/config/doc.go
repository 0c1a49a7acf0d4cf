// Package config defines the application's configuration structure and
// loading logic. Configuration comes from environment variables with the
// TASKTRACK_ prefix, optionally layered over a config.yaml file, and is
// validated before use. The database.backend key selects which task store
// implementation the deployment runs.
package config
