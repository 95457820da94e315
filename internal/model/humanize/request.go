package humanize

// Request is the body posted to the humanize endpoint.
type Request struct {
	Text string `json:"text"`
}
