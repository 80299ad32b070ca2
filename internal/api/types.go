package api

// ingestResponse is the envelope for POST /api/v1/vitals and for every
// error body.
type ingestResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// healthResponse is the payload for GET /api/v1/health.
type healthResponse struct {
	Status    string `json:"status"`
	Observers int    `json:"observers"`
}
