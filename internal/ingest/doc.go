// Package ingest implements the ingestion pipeline: the single logical
// operation that turns a raw sensor payload into a persisted sample, zero or
// more persisted-and-broadcast alerts, and one final sample broadcast.
//
// Ordering within one Ingest call is strict:
//
//  1. normalize the payload (default patient id, default/parsed timestamp)
//  2. persist the sample — a failure here aborts the whole call
//  3. evaluate the rule set in fixed rule order
//  4. per candidate, in order: persist the alert (best-effort, logged on
//     failure), then broadcast it
//  5. broadcast the sample — always last, exactly once
//
// Across concurrent Ingest calls no ordering is guaranteed; the stores and
// the broadcaster carry their own concurrency safety. Nothing is retried and
// repeated breaching samples produce fresh alerts every time.
package ingest
