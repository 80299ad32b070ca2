// Package api implements the HTTP surface of medsense-server: the sample
// ingest endpoint consumed by sensor producers and the historical query
// endpoints consumed by dashboards. Responses are JSON; failures use the
// {ok:false, message} envelope the producers expect.
package api
