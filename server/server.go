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

// Package server adapts the request dispatch to the net/http transport.
//
// The router runs while the request headers are available to match the route,
// seed the path parameters and register the deferred body arguments.
// Then the body is received, and the dispatch is scheduled on the event loop
// pinned to the connection.
package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xgfone/berth"
	"github.com/xgfone/berth/herror"
	"github.com/xgfone/berth/loop"
	"github.com/xgfone/berth/metrics"
	"github.com/xgfone/berth/render"
)

// DefaultMaxBodySize is the default maximum size of the request body.
const DefaultMaxBodySize = 4 << 20

type connloop uint8

var bufpool = sync.Pool{
	New: func() interface{} { return bytes.NewBuffer(make([]byte, 0, 1024)) },
}

func getBuffer() *bytes.Buffer    { return bufpool.Get().(*bytes.Buffer) }
func putBuffer(buf *bytes.Buffer) { buf.Reset(); bufpool.Put(buf) }

// BodyParam is a route argument bound from the request body.
type BodyParam struct {
	Argument berth.Argument
	Binder   berth.BodyBinder
}

// Body returns a new BodyParam.
func Body(arg berth.Argument, binder berth.BodyBinder) BodyParam {
	if binder == nil {
		panic("server: the body binder must not be nil")
	}
	return BodyParam{Argument: arg, Binder: binder}
}

// Option is used to configure the server.
type Option func(*Server)

// WithLogger sets the logger of the server and its loops.
func WithLogger(logger berth.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics sets the metric collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithMaxBodySize sets the maximum size of the request body.
func WithMaxBodySize(size int64) Option {
	return func(s *Server) {
		if size > 0 {
			s.maxBody = size
		}
	}
}

// WithLoops sets the number of the event loops and the size of their task queue.
func WithLoops(count, queueSize int) Option {
	return func(s *Server) { s.loopCount, s.queueSize = count, queueSize }
}

// WithEncoder sets the encoder of the default response transmitter.
func WithEncoder(encoder render.Encoder) Option {
	return func(s *Server) { s.trans = berth.NewResponseTransmitter(encoder) }
}

// WithTransmitter sets the response transmitter.
func WithTransmitter(t berth.Transmitter) Option {
	return func(s *Server) { s.trans = t }
}

// Server is the http.Handler to dispatch the requests on the event loops.
type Server struct {
	logger    berth.Logger
	metrics   *metrics.Collector
	trans     berth.Transmitter
	maxBody   int64
	loopCount int
	queueSize int

	loops  *loop.Group
	router *chi.Mux
}

// New returns a new server with the started event loops.
func New(options ...Option) *Server {
	s := &Server{maxBody: DefaultMaxBodySize, loopCount: 1}
	for _, option := range options {
		option(s)
	}

	if s.logger == nil {
		s.logger = berth.NewNopLogger()
	}
	if s.trans == nil {
		s.trans = berth.NewResponseTransmitter(nil)
	}

	s.loops = loop.NewGroup(s.loopCount,
		loop.SetQueueSize(s.queueSize),
		loop.SetLogger(s.logger),
		loop.SetFailureHandler(s.handleFailure))

	s.router = chi.NewRouter()
	s.router.NotFound(s.unmatched(herror.ErrNotFound))
	s.router.MethodNotAllowed(s.unmatched(herror.ErrMethodNotAllowed))
	return s
}

// GetLogger returns the logger of the server.
func (s *Server) GetLogger() berth.Logger { return s.logger }

// Loops returns the event loops of the server.
func (s *Server) Loops() *loop.Group { return s.loops }

// Stop stops all the event loops after the queued dispatches finish.
func (s *Server) Stop(ctx context.Context) error { return s.loops.Stop(ctx) }

// ConnContext pins the new connection to one of the event loops,
// which is used as http.Server.ConnContext.
func (s *Server) ConnContext(ctx context.Context, c net.Conn) context.Context {
	return context.WithValue(ctx, connloop(0), s.loops.Next())
}

// Handle registers the route with the method and the chi pattern,
// such as "/users/{id}".
//
// The path parameters are seeded into the route arguments by name,
// and the body parameters are bound in order after the body is received.
func (s *Server) Handle(method, pattern string, route berth.RouteMatch, body ...BodyParam) {
	if route == nil {
		panic("server: the route must not be nil")
	}

	params := append([]BodyParam(nil), body...)
	s.router.MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := berth.GetContext(r.Context())
		ctx.SetMatchedRoute(route)

		if rctx := chi.RouteContext(r.Context()); rctx != nil && len(rctx.URLParams.Keys) > 0 {
			args := ctx.RouteArguments()
			if args == nil {
				args = make(berth.Arguments, len(rctx.URLParams.Keys)+len(params))
				ctx.SetRouteArguments(args)
			}
			for i, key := range rctx.URLParams.Keys {
				args[key] = rctx.URLParams.Values[i]
			}
		}

		for _, p := range params {
			ctx.AddBodyArgument(p.Argument, p.Binder)
		}
	})
}

// HandleRoute is equal to s.Handle(route.Method, route.Path, route, body...).
func (s *Server) HandleRoute(route *berth.Route, body ...BodyParam) {
	s.Handle(route.Method, route.Path, route, body...)
}

func (s *Server) unmatched(err herror.HTTPError) http.HandlerFunc {
	route := berth.RouteMatchFunc(func(berth.Arguments) (interface{}, error) {
		return err, nil
	})
	return func(w http.ResponseWriter, r *http.Request) {
		berth.GetContext(r.Context()).SetMatchedRoute(route)
	}
}

func (s *Server) executor(r *http.Request) berth.Executor {
	if l, ok := r.Context().Value(connloop(0)).(*loop.Loop); ok {
		return l
	}
	return s.loops.Next()
}

// ServeHTTP implements the interface http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := berth.NewRequestContext(s.executor(r), r, w, s.trans)
	ctx.Logger = s.logger

	req := r.WithContext(berth.SetContext(r.Context(), ctx))
	ctx.SetRequest(req)

	// Header phase
	s.router.ServeHTTP(ctx.Response(), req)

	// A middleware has answered the request without reaching a route.
	if ctx.Response().Wrote || ctx.MatchedRoute() == nil {
		ctx.Release()
		return
	}

	buf := getBuffer()
	defer putBuffer(buf)

	if err := s.readBody(req, buf); err != nil {
		s.reply(ctx, err)
		return
	}

	if err := ctx.Dispatch(); err != nil {
		s.refuse(ctx, err)
		return
	}

	start := time.Now()
	finish := s.metrics.Begin()
	<-ctx.Done()
	finish(ctx.Outcome())

	s.logger.Debugf("addr=%s, code=%d, method=%s, url=%s, outcome=%s, cost=%s",
		r.RemoteAddr, ctx.Response().Status, r.Method, r.URL.RequestURI(),
		ctx.Outcome(), time.Since(start))
}

// readBody receives the whole body into buf, and replaces the body of req
// with the one which can be read by more than one binder.
func (s *Server) readBody(req *http.Request, buf *bytes.Buffer) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}

	if req.ContentLength > s.maxBody {
		return herror.ErrRequestEntityTooLarge
	}

	n, err := buf.ReadFrom(io.LimitReader(req.Body, s.maxBody+1))
	switch {
	case err != nil:
		s.logger.Warnf("fail to read the body of %s %s: %s", req.Method, req.URL.Path, err)
		return herror.ErrBadRequest.New(err)
	case n > s.maxBody:
		return herror.ErrRequestEntityTooLarge
	}

	data := buf.Bytes()
	req.ContentLength = n
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil
}

func (s *Server) refuse(ctx *berth.RequestContext, err error) {
	req := ctx.Request()
	if errors.Is(err, loop.ErrLoopBusy) || errors.Is(err, loop.ErrLoopClosed) {
		s.metrics.Reject()
		s.logger.Warnf("refuse %s %s: %s", req.Method, req.URL.Path, err)
		s.reply(ctx, herror.ErrServiceUnavailable.New(err))
	} else {
		s.logger.Errorf("fail to dispatch %s %s: %s", req.Method, req.URL.Path, err)
		s.reply(ctx, err)
	}
}

// reply sends the error on the transport goroutine before the dispatch,
// unless the response has been written.
func (s *Server) reply(ctx *berth.RequestContext, err error) {
	defer ctx.Release()
	if ctx.Response().Wrote {
		s.logger.Warnf("drop the error after the response is written: %s", err)
		return
	}

	if e := ctx.Transmitter().SendError(ctx.Response(), err); e != nil {
		s.logger.Errorf("fail to send the error response: %s", e)
	}
}

// handleFailure is the failure policy of the event loops.
func (s *Server) handleFailure(err error) {
	var de *berth.DispatchError
	if !errors.As(err, &de) {
		s.logger.Errorf("loop task fails: %s", err)
		return
	}

	ctx := de.Context
	defer ctx.Release()

	s.logger.Errorf("%s", de)
	if res := ctx.Response(); !res.Wrote {
		if e := ctx.Transmitter().SendError(res, de.Err); e != nil {
			s.logger.Errorf("fail to send the error response: %s", e)
		}
	}
}
