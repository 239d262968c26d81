package host

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/schemeguard/guardk"
)

// PausedToRequest decodes a Fetch.requestPaused event payload
func PausedToRequest(payload []byte) (*guardk.Request, error) {
	message := &gcdapi.FetchRequestPausedEvent{}
	if err := json.Unmarshal(payload, message); err != nil {
		return nil, errors.Wrap(err, "unable to decode Fetch.requestPaused")
	}

	p := message.Params
	if p.RequestId == "" {
		return nil, ErrMissingRequestID
	}

	req := &guardk.Request{
		ID:           p.RequestId,
		ResourceType: p.ResourceType,
	}
	if p.Request != nil {
		req.URL = p.Request.Url
		req.Method = p.Request.Method
	}
	return req, nil
}
