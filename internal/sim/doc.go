// Package sim implements the sensor simulator: a periodic producer that
// posts one synthetic sample per configured patient to the ingest endpoint.
// Values sit in normal clinical ranges, with a small configurable chance of
// an out-of-range heart rate to exercise alerting. Send failures are logged
// and never stop the loop.
package sim
