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
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Group is a fixed set of loops, which pins each connection to one loop.
type Group struct {
	loops []*Loop
	next  uint32
}

// NewGroup returns a new group with n started loops, which are named
// "loop-0", "loop-1", etc.
//
// The options are applied to every loop. If n is less than 1, it is 1.
func NewGroup(n int, options ...Option) *Group {
	if n < 1 {
		n = 1
	}

	loops := make([]*Loop, n)
	for i := range loops {
		opts := make([]Option, 0, len(options)+1)
		opts = append(opts, options...)
		opts = append(opts, SetName(fmt.Sprintf("loop-%d", i)))
		loops[i] = New(opts...)
	}
	return &Group{loops: loops}
}

// Len returns the number of the loops.
func (g *Group) Len() int { return len(g.loops) }

// Loops returns all the loops.
func (g *Group) Loops() []*Loop { return append([]*Loop(nil), g.loops...) }

// Next returns the next loop by round robin, which is safe for concurrent use.
func (g *Group) Next() *Loop {
	index := atomic.AddUint32(&g.next, 1) - 1
	return g.loops[index%uint32(len(g.loops))]
}

// Stop stops all the loops concurrently and waits until they exit
// or ctx is done.
func (g *Group) Stop(ctx context.Context) error {
	var eg errgroup.Group
	for _, l := range g.loops {
		l := l
		eg.Go(func() error { return l.Stop(ctx) })
	}
	return eg.Wait()
}
