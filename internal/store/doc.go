// Package store provides the durable Postgres-backed stores for samples and
// alerts. Both are append-only: rows are inserted on ingestion and queried by
// patient and time range, never updated or deleted by this service.
//
// Open establishes the shared *sql.DB handle (acquire on startup, close on
// shutdown); EnsureSchema idempotently bootstraps the tables. Repositories
// are safe for concurrent use — database/sql handles pooling internally.
package store
