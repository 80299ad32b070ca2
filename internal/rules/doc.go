// Package rules implements the clinical threshold rule set and the anomaly
// detector that evaluates samples against it.
//
// The rule table is fixed: exactly six checks, evaluated in declaration
// order. That order determines the order in which alerts are persisted and
// broadcast downstream. Evaluate is a pure function — no state, no side
// effects, no deduplication across repeated samples.
package rules
