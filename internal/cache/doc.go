// Package cache keeps the most recent sample per patient in Redis so
// dashboards can read the current state without a range query. Writes are
// best-effort: the ingestion pipeline logs cache failures and moves on, and
// the server runs fine with the cache disabled entirely.
package cache
