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

// Package loop provides the serialized execution contexts, which run
// the scheduled tasks one by one on a dedicated goroutine.
package loop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/xgfone/berth"
)

// Some errors returned by Execute.
var (
	ErrLoopClosed = errors.New("loop is closed")
	ErrLoopBusy   = errors.New("loop task queue is full")
)

// DefaultQueueSize is the default size of the task queue of a loop.
const DefaultQueueSize = 1024

// FailureHandler is the policy to handle the error returned by a task
// or the panic of a task, which runs on the loop goroutine.
type FailureHandler func(err error)

// PanicError is the failure converted from the panic of a task.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Option is used to configure the loop.
type Option func(*Loop)

// SetName sets the name of the loop.
func SetName(name string) Option { return func(l *Loop) { l.name = name } }

// SetQueueSize sets the size of the task queue. The default is DefaultQueueSize.
func SetQueueSize(size int) Option {
	return func(l *Loop) {
		if size > 0 {
			l.size = size
		}
	}
}

// SetFailureHandler sets the failure policy of the loop.
//
// The default logs the failure by the logger.
func SetFailureHandler(handler FailureHandler) Option {
	return func(l *Loop) { l.onFailure = handler }
}

// SetLogger sets the logger of the loop.
func SetLogger(logger berth.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// Loop is a serialized execution context, which implements
// the interface berth.Executor.
type Loop struct {
	name      string
	size      int
	logger    berth.Logger
	onFailure FailureHandler

	lock   sync.RWMutex
	closed bool
	tasks  chan func() error
	exited chan struct{}
}

var _ berth.Executor = &Loop{}

// New returns a new started loop.
func New(options ...Option) *Loop {
	l := &Loop{name: "loop", size: DefaultQueueSize, exited: make(chan struct{})}
	for _, option := range options {
		option(l)
	}

	if l.logger == nil {
		l.logger = berth.NewNopLogger()
	}
	if l.onFailure == nil {
		l.onFailure = l.logFailure
	}

	l.tasks = make(chan func() error, l.size)
	go l.run()
	return l
}

// Name returns the name of the loop.
func (l *Loop) Name() string { return l.name }

// Pending returns the number of the queued tasks.
func (l *Loop) Pending() int { return len(l.tasks) }

// Execute implements the interface berth.Executor, which never blocks.
//
// Return ErrLoopClosed if the loop has been stopped,
// or ErrLoopBusy if the task queue is full.
func (l *Loop) Execute(task func() error) error {
	if task == nil {
		panic("loop: the task must not be nil")
	}

	l.lock.RLock()
	defer l.lock.RUnlock()
	if l.closed {
		return ErrLoopClosed
	}

	select {
	case l.tasks <- task:
		return nil
	default:
		return ErrLoopBusy
	}
}

// Stop stops accepting the new tasks and waits until all the queued tasks
// finish or ctx is done.
func (l *Loop) Stop(ctx context.Context) error {
	l.lock.Lock()
	if !l.closed {
		l.closed = true
		close(l.tasks)
	}
	l.lock.Unlock()

	select {
	case <-l.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel which is closed after the loop exits.
func (l *Loop) Done() <-chan struct{} { return l.exited }

func (l *Loop) run() {
	defer close(l.exited)
	l.logger.Debugf("loop '%s' is started", l.name)
	for task := range l.tasks {
		if err := l.runTask(task); err != nil {
			l.fail(err)
		}
	}
	l.logger.Debugf("loop '%s' is stopped", l.name)
}

func (l *Loop) runTask(task func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = &PanicError{Value: e, Stack: debug.Stack()}
		}
	}()
	return task()
}

func (l *Loop) fail(err error) {
	defer func() {
		if e := recover(); e != nil {
			l.logger.Errorf("loop '%s': failure handler panics: %v\n%s", l.name, e, debug.Stack())
		}
	}()
	l.onFailure(err)
}

func (l *Loop) logFailure(err error) {
	var pe *PanicError
	if errors.As(err, &pe) {
		l.logger.Errorf("loop '%s': %s\n%s", l.name, pe, pe.Stack)
	} else {
		l.logger.Errorf("loop '%s': %s", l.name, err)
	}
}
