package guardk

// Request is a single outbound request seen by the host
type Request struct {
	ID           string
	URL          string
	Method       string
	ResourceType string
}

// Response is what we hand back to the host. Cancel true means the request is dropped.
type Response struct {
	Cancel bool
}
