// Copyright 2026 xgfone
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package berth

import (
	"fmt"
	"net/http"
)

// Executor is the serialized execution context of a connection,
// such as an event loop.
type Executor interface {
	// Execute schedules the task to run later on the execution context.
	//
	// If the task returns an error, it is handed to the failure policy
	// of the execution context.
	Execute(task func() error) error
}

// ExecutorFunc is a function type implementing the interface Executor.
type ExecutorFunc func(task func() error) error

// Execute implements the interface Executor.
func (f ExecutorFunc) Execute(task func() error) error { return f(task) }

// Outcome is the result of the dispatch of a request.
type Outcome uint8

// Predefine some outcomes.
const (
	Pending Outcome = iota
	Succeeded
	BadRequest
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case BadRequest:
		return "bad_request"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// RequestContext is the state of a request, which is created when the
// request headers are parsed and is consumed by the single dispatch.
//
// It is not thread-safe. All the methods must be called on the goroutine
// owning it, which is the transport before Dispatch and the executor after.
type RequestContext struct {
	// Logger is used to trace the dispatch, which may be nil.
	Logger Logger

	exec  Executor
	req   *http.Request
	res   *Response
	trans Transmitter

	route    RouteMatch
	args     Arguments
	deferred []DeferredArgument

	outcome    Outcome
	dispatched bool
	released   bool
	done       chan struct{}
}

// NewRequestContext returns a new RequestContext.
//
// If t is nil, it is NewResponseTransmitter(nil) by default.
func NewRequestContext(exec Executor, req *http.Request, w http.ResponseWriter,
	t Transmitter) *RequestContext {
	if exec == nil {
		panic("RequestContext: the executor must not be nil")
	} else if req == nil {
		panic("RequestContext: the request must not be nil")
	} else if t == nil {
		t = NewResponseTransmitter(nil)
	}

	res, ok := w.(*Response)
	if !ok {
		res = NewResponse(w)
	}

	return &RequestContext{
		exec:  exec,
		req:   req,
		res:   res,
		trans: t,
		done:  make(chan struct{}),
	}
}

// Executor returns the executor of the connection.
func (c *RequestContext) Executor() Executor { return c.exec }

// Request returns the inner request.
func (c *RequestContext) Request() *http.Request { return c.req }

// SetRequest resets the request to req, such as a copy with a new context.
func (c *RequestContext) SetRequest(req *http.Request) { c.req = req }

// Response returns the outbound channel of the request.
func (c *RequestContext) Response() *Response { return c.res }

// Transmitter returns the transmitter owned by the request.
func (c *RequestContext) Transmitter() Transmitter { return c.trans }

// MatchedRoute returns the route set by the router.
func (c *RequestContext) MatchedRoute() RouteMatch { return c.route }

// SetMatchedRoute sets the route matched by the router,
// which must be called before Dispatch.
func (c *RequestContext) SetMatchedRoute(route RouteMatch) { c.route = route }

// RouteArguments returns the resolved arguments of the route.
func (c *RequestContext) RouteArguments() Arguments { return c.args }

// SetRouteArguments resets the resolved arguments of the route.
func (c *RequestContext) SetRouteArguments(args Arguments) { c.args = args }

// AddBodyArgument registers the argument which will be bound by binder
// after the body is received.
//
// The arguments are bound in the order they are registered.
func (c *RequestContext) AddBodyArgument(arg Argument, binder BodyBinder) {
	if binder == nil {
		panic(fmt.Errorf("RequestContext: the binder of argument '%s' is nil", arg.Name))
	}
	c.deferred = append(c.deferred, DeferredArgument{Argument: arg, Binder: binder})
}

// DeferredArguments returns the snapshot of the registered body arguments.
func (c *RequestContext) DeferredArguments() []DeferredArgument {
	args := make([]DeferredArgument, len(c.deferred))
	copy(args, c.deferred)
	return args
}

// Outcome returns the outcome of the dispatch.
//
// It is only meaningful after Done is closed.
func (c *RequestContext) Outcome() Outcome { return c.outcome }

// Done returns a channel which is closed when the context is released.
func (c *RequestContext) Done() <-chan struct{} { return c.done }

// Release releases the context, which is called by the dispatch itself
// after transmitting the response, or by the failure policy of the executor
// after handling a DispatchError.
//
// The temporary files of the multipart form parsed from the request,
// if any, are removed.
//
// It is safe to call it more than once on the owning goroutine.
func (c *RequestContext) Release() {
	if !c.released {
		c.released = true
		c.deferred = nil
		if c.req != nil && c.req.MultipartForm != nil {
			if err := c.req.MultipartForm.RemoveAll(); err != nil {
				c.debugf("fail to remove the multipart files: %s", err)
			}
		}
		close(c.done)
	}
}

// Dispatch schedules the dispatch of the request on the executor,
// which binds the deferred body arguments in order, executes the matched
// route with the resolved arguments, and transmits the result.
//
// If a body argument is unbound, it sends the bad request response
// without binding the rest and executing the route.
//
// If the route or a binder fails, nothing is transmitted and the failure
// is returned to the executor as a *DispatchError.
//
// Return ErrNoMatchedRoute if no route is set, or the error returned
// by the executor. It panics if called more than once.
func (c *RequestContext) Dispatch() error {
	if c.dispatched {
		panic(ErrAlreadyDispatched)
	} else if c.route == nil {
		return ErrNoMatchedRoute
	}

	c.dispatched = true
	return c.exec.Execute(c.dispatch)
}

func (c *RequestContext) dispatch() (err error) {
	defer func() {
		switch e := recover().(type) {
		case nil:
		case error:
			err = c.fail(e)
		default:
			err = c.fail(fmt.Errorf("%v", e))
		}
	}()

	if c.args == nil {
		c.args = make(Arguments, len(c.deferred))
	}

	for _, d := range c.deferred {
		result, err := d.Binder.Bind(d.Argument, c.req)
		if err != nil {
			return c.fail(fmt.Errorf("fail to bind argument '%s': %w", d.Argument.Name, err))
		}

		value, ok := result.Value()
		if !ok {
			c.debugf("argument '%s' is unbound for %s %s",
				d.Argument.Name, c.req.Method, c.req.URL.Path)
			c.outcome = BadRequest
			return c.complete(c.trans.SendBadRequest(c.res))
		}
		c.args[d.Argument.Name] = value
	}

	result, err := c.route.Execute(c.args)
	if err != nil {
		return c.fail(err)
	}

	c.outcome = Succeeded
	return c.complete(c.trans.SendSuccess(c.res, result))
}

func (c *RequestContext) complete(err error) error {
	if err != nil {
		return c.fail(err)
	}
	c.Release()
	return nil
}

func (c *RequestContext) fail(err error) error {
	c.outcome = Failed
	return &DispatchError{Context: c, Err: err}
}

func (c *RequestContext) debugf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debugf(format, args...)
	}
}
