package guardk

import "math"

// RequestHandler for adding middleware between host request events
type RequestHandler func(c *Context)

const abortIndex int8 = math.MaxInt8 / 2

// Chain of request handlers registered at startup. Handlers must not be
// added once the host starts delivering requests.
type Chain struct {
	reqHandlers []RequestHandler
}

// AddReqHandler adds new request handlers
func (ch *Chain) AddReqHandler(i ...RequestHandler) {
	if ch.reqHandlers == nil {
		ch.reqHandlers = make([]RequestHandler, 0)
	}
	ch.reqHandlers = append(ch.reqHandlers, i...)
}

// Len of the handler chain
func (ch *Chain) Len() int {
	return len(ch.reqHandlers)
}

// Run the chain for a single request. Every call gets its own Context so
// concurrent requests never share state.
func (ch *Chain) Run(req *Request) *Response {
	c := &Context{
		Request:     req,
		Response:    &Response{Cancel: false},
		reqHandlers: ch.reqHandlers,
	}
	c.NextReq()
	return c.Response
}

// Context for a single intercepted request
type Context struct {
	Request  *Request
	Response *Response

	reqHandlers []RequestHandler
	reqIndex    int8
}

// NextReq calls the next handler
func (c *Context) NextReq() {
	c.reqIndex++
	for c.reqIndex <= int8(len(c.reqHandlers)) {
		c.reqHandlers[c.reqIndex-1](c)
		c.reqIndex++
	}
}

// IsReqAborted returns true if the current context was aborted.
func (c *Context) IsReqAborted() bool {
	return c.reqIndex >= abortIndex
}

// ReqAbort prevents pending handlers from being called.
func (c *Context) ReqAbort() {
	c.reqIndex = abortIndex
}
