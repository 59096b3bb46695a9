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

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/xgfone/berth"
)

// DefaultSignals is the signals to stop the runner by default.
var DefaultSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	syscall.SIGABRT,
	syscall.SIGINT,
}

// Runner runs an HTTP server until it is stopped by Stop, Shutdown
// or one of Signals.
//
// For a handler like *Server, NewRunner binds the connections and the
// lifetime of the http server to the event loops of the handler:
//
//   - Its ConnContext is installed as http.Server.ConnContext, so every
//     accepted connection is pinned to one event loop, and the requests
//     on a keep-alive connection are dispatched in order on that loop.
//   - Its Stop is the last shutdown hook, so the event loops drain the
//     queued dispatches only after the listener has been closed and the
//     in-flight requests have been answered.
type Runner struct {
	Name    string
	Logger  berth.Logger
	Server  *http.Server
	Signals []os.Signal

	// StopTimeout bounds the graceful shutdown started by Stop or a signal,
	// and the drain of the event loops separately. Zero means no bound.
	StopTimeout time.Duration

	hooks    []func()
	stopping atomic.Bool
	draining atomic.Bool
	done     chan struct{}
}

type loopStopper interface {
	Stop(context.Context) error
}

type connPinner interface {
	ConnContext(context.Context, net.Conn) context.Context
}

// NewRunner returns a new Runner to run the handler on addr.
//
// The logger is handler.GetLogger() if the handler has the method.
func NewRunner(name, addr string, handler http.Handler) *Runner {
	r := &Runner{
		Name:    name,
		Server:  &http.Server{Addr: addr, Handler: handler},
		Signals: DefaultSignals,
		done:    make(chan struct{}),
	}

	if h, ok := handler.(interface{ GetLogger() berth.Logger }); ok {
		r.Logger = h.GetLogger()
	}
	if h, ok := handler.(connPinner); ok {
		r.Server.ConnContext = h.ConnContext
	}
	if h, ok := handler.(loopStopper); ok {
		r.OnShutdown(func() { r.drainLoops(h) })
	}

	return r
}

// OnShutdown appends the hooks, which are run once in the reverse order
// after the http server is shut down.
func (r *Runner) OnShutdown(hooks ...func()) {
	r.hooks = append(r.hooks, hooks...)
}

// Link makes the runner and other stop each other.
func (r *Runner) Link(other *Runner) {
	r.OnShutdown(other.Stop)
	other.OnShutdown(r.Stop)
}

// Shutdown shuts down the http server gracefully with ctx,
// then runs the shutdown hooks if they have not been run.
func (r *Runner) Shutdown(ctx context.Context) error {
	err := r.Server.Shutdown(ctx)
	if r.draining.CompareAndSwap(false, true) {
		for i := len(r.hooks) - 1; i >= 0; i-- {
			r.hooks[i]()
		}
		close(r.done)
	}
	return err
}

// Stop shuts down the runner within StopTimeout.
//
// Only the first call does the work, and the later calls return at once
// without waiting for it. Use Done to wait.
func (r *Runner) Stop() {
	if r.draining.Load() || !r.stopping.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := r.stopContext()
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		r.errorf("The HTTP Server [%s] fails to shut down gracefully: %s", r.Name, err)
	}
}

// Done returns a channel which is closed after all the shutdown hooks finish.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Start listens on Server.Addr and serves the requests until stopped.
//
// Return nil if it is stopped by Stop, Shutdown or the signals.
func (r *Runner) Start() error {
	if r.Server.Addr == "" {
		panic("Runner: Server.Addr is empty")
	}
	return r.serve(r.Server.Addr, r.Server.ListenAndServe)
}

// Serve is the same as Start, but accepts the connections from ln.
func (r *Runner) Serve(ln net.Listener) error {
	return r.serve(ln.Addr().String(), func() error { return r.Server.Serve(ln) })
}

func (r *Runner) serve(addr string, serve func() error) error {
	if r.Server.Handler == nil {
		panic("Runner: Server.Handler is nil")
	}

	if r.Server.ConnContext != nil {
		r.infof("The HTTP Server [%s] is running on %s, pinning connections to loops", r.Name, addr)
	} else {
		r.infof("The HTTP Server [%s] is running on %s", r.Name, addr)
	}

	go r.watchSignals()
	err := serve()

	// Serve returns as soon as the listener is closed, so wait for
	// the in-flight requests and the hooks.
	r.Stop()
	<-r.done

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.errorf("The HTTP Server [%s] is shutdown: %s", r.Name, err)
		return err
	}

	r.infof("The HTTP Server [%s] is shutdown", r.Name)
	return nil
}

func (r *Runner) drainLoops(s loopStopper) {
	ctx, cancel := r.stopContext()
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		r.errorf("The HTTP Server [%s] fails to drain the event loops: %s", r.Name, err)
	}
}

func (r *Runner) stopContext() (context.Context, context.CancelFunc) {
	if r.StopTimeout > 0 {
		return context.WithTimeout(context.Background(), r.StopTimeout)
	}
	return context.WithCancel(context.Background())
}

func (r *Runner) watchSignals() {
	if len(r.Signals) == 0 {
		return
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, r.Signals...)
	defer signal.Stop(sigs)

	select {
	case <-r.done:
	case sig := <-sigs:
		r.infof("The HTTP Server [%s] receives the signal '%s'", r.Name, sig)
		r.Stop()
	}
}

func (r *Runner) infof(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Infof(format, args...)
	}
}

func (r *Runner) errorf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Errorf(format, args...)
	}
}
