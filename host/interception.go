package host

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/schemeguard/guardk"
)

// RequestResolver lets a paused request continue or fails it
type RequestResolver interface {
	Continue(requestID string) error
	Fail(requestID, reason string) error
}

type fetchResolver struct {
	fetch *gcdapi.Fetch
}

func (f *fetchResolver) Continue(requestID string) error {
	_, err := f.fetch.ContinueRequestWithParams(&gcdapi.FetchContinueRequestParams{RequestId: requestID})
	return err
}

func (f *fetchResolver) Fail(requestID, reason string) error {
	_, err := f.fetch.FailRequestWithParams(&gcdapi.FetchFailRequestParams{RequestId: requestID, ErrorReason: reason})
	return err
}

// Stats of decisions made
type Stats struct {
	Allowed int64
	Denied  int64
	Errors  int64
}

// Add two stats together
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Allowed: s.Allowed + o.Allowed,
		Denied:  s.Denied + o.Denied,
		Errors:  s.Errors + o.Errors,
	}
}

// Interceptor runs the request chain for every paused request and resolves
// it with the host
type Interceptor struct {
	allowed  int64 // kept first for atomic alignment
	denied   int64
	failures int64

	chain    *guardk.Chain
	resolver RequestResolver
	logger   zerolog.Logger
}

// NewInterceptor for the chain
func NewInterceptor(chain *guardk.Chain, resolver RequestResolver, logger zerolog.Logger) *Interceptor {
	return &Interceptor{chain: chain, resolver: resolver, logger: logger}
}

// HandlePaused is called with the raw Fetch.requestPaused payload.
func (i *Interceptor) HandlePaused(payload []byte) {
	req, err := PausedToRequest(payload)
	if err != nil {
		atomic.AddInt64(&i.failures, 1)
		i.logger.Warn().Err(err).Msg("dropping paused request event")
		return
	}

	resp := i.chain.Run(req)
	if resp.Cancel {
		atomic.AddInt64(&i.denied, 1)
		i.logger.Debug().Str("request_id", req.ID).Str("url", req.URL).Str("decision", guardk.Deny.String()).Msg("request cancelled")
		if err := i.resolver.Fail(req.ID, BlockedByClient); err != nil {
			atomic.AddInt64(&i.failures, 1)
			i.logger.Error().Err(err).Str("request_id", req.ID).Msg("failed to cancel request")
		}
		return
	}

	atomic.AddInt64(&i.allowed, 1)
	i.logger.Debug().Str("request_id", req.ID).Str("url", req.URL).Str("decision", guardk.Allow.String()).Msg("request allowed")
	if err := i.resolver.Continue(req.ID); err != nil {
		atomic.AddInt64(&i.failures, 1)
		i.logger.Error().Err(err).Str("request_id", req.ID).Msg("failed to continue request")
	}
}

// Stats so far
func (i *Interceptor) Stats() Stats {
	return Stats{
		Allowed: atomic.LoadInt64(&i.allowed),
		Denied:  atomic.LoadInt64(&i.denied),
		Errors:  atomic.LoadInt64(&i.failures),
	}
}
