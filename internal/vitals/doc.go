// Package vitals defines the shared domain types for medsense: the Sample
// record produced by patient sensors and the Alert record produced by the
// rule engine. These are the canonical in-memory representations, separate
// from any storage or transport encoding.
package vitals
