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

package loop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xgfone/berth"
)

func TestLoop_Serialized(t *testing.T) {
	l := New(SetName("test"))
	assert.Equal(t, "test", l.Name())

	var running int32
	var order []int
	for i := 0; i < 100; i++ {
		i := i
		require.NoError(t, l.Execute(func() error {
			if !atomic.CompareAndSwapInt32(&running, 0, 1) {
				t.Error("two tasks run concurrently")
			}
			order = append(order, i)
			atomic.StoreInt32(&running, 0)
			return nil
		}))
	}

	require.NoError(t, l.Stop(context.Background()))
	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}

	assert.Equal(t, ErrLoopClosed, l.Execute(func() error { return nil }))
	assert.NoError(t, l.Stop(context.Background()))
	assert.Panics(t, func() { l.Execute(nil) })
}

func TestLoop_FailureHandler(t *testing.T) {
	var failures []error
	l := New(SetFailureHandler(func(err error) { failures = append(failures, err) }))

	taskErr := errors.New("task error")
	l.Execute(func() error { return taskErr })
	l.Execute(func() error { panic("oops") })
	l.Execute(func() error { panic(taskErr) })
	l.Execute(func() error { return nil })
	require.NoError(t, l.Stop(context.Background()))

	require.Len(t, failures, 3)
	assert.Equal(t, taskErr, failures[0])

	var pe *PanicError
	if assert.True(t, errors.As(failures[1], &pe)) {
		assert.Equal(t, "oops", pe.Value)
		assert.Equal(t, "panic: oops", pe.Error())
		assert.NotEmpty(t, pe.Stack)
		assert.Nil(t, pe.Unwrap())
	}
	assert.True(t, errors.Is(failures[2], taskErr))
}

func TestLoop_FailureHandlerPanic(t *testing.T) {
	var ran int32
	l := New(SetFailureHandler(func(err error) { panic(err) }))
	l.Execute(func() error { return errors.New("first") })
	l.Execute(func() error { atomic.StoreInt32(&ran, 1); return nil })
	require.NoError(t, l.Stop(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestLoop_Busy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	l := New(SetQueueSize(1))

	require.NoError(t, l.Execute(func() error { close(started); <-release; return nil }))
	<-started

	require.NoError(t, l.Execute(func() error { return nil }))
	assert.Equal(t, 1, l.Pending())
	assert.Equal(t, ErrLoopBusy, l.Execute(func() error { return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Equal(t, context.DeadlineExceeded, l.Stop(ctx))

	close(release)
	<-l.Done()
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_DispatchRouteFailure(t *testing.T) {
	failures := make(chan error, 1)
	l := New(SetFailureHandler(func(err error) { failures <- err }))
	defer l.Stop(context.Background())

	routeErr := errors.New("route failure")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := berth.NewRequestContext(l, req, rec, nil)
	ctx.SetMatchedRoute(berth.RouteMatchFunc(func(berth.Arguments) (interface{}, error) {
		return nil, routeErr
	}))
	require.NoError(t, ctx.Dispatch())

	select {
	case err := <-failures:
		var de *berth.DispatchError
		require.True(t, errors.As(err, &de))
		assert.Same(t, ctx, de.Context)
		assert.True(t, errors.Is(err, routeErr))
	case <-time.After(time.Second):
		t.Fatal("the failure handler is not called")
	}

	assert.False(t, ctx.Response().Wrote)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestGroup(t *testing.T) {
	g := NewGroup(3, SetQueueSize(8))
	assert.Equal(t, 3, g.Len())

	names := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		names = append(names, g.Next().Name())
	}
	assert.Equal(t, []string{"loop-0", "loop-1", "loop-2", "loop-0", "loop-1", "loop-2"}, names)

	loops := g.Loops()
	require.NoError(t, g.Stop(context.Background()))
	for _, l := range loops {
		assert.Equal(t, ErrLoopClosed, l.Execute(func() error { return nil }))
	}

	assert.Equal(t, 1, NewGroup(0).Len())
}
