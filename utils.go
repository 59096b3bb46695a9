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
	"bytes"
	"context"
	"sync"
)

var bufpool = sync.Pool{
	New: func() interface{} { return bytes.NewBuffer(make([]byte, 0, 1024)) },
}

func getBuffer() *bytes.Buffer    { return bufpool.Get().(*bytes.Buffer) }
func putBuffer(buf *bytes.Buffer) { buf.Reset(); bufpool.Put(buf) }

type reqctx uint8

// GetContext returns the request context from the context.
//
// Return nil if not set.
func GetContext(ctx context.Context) *RequestContext {
	c, _ := ctx.Value(reqctx(255)).(*RequestContext)
	return c
}

// SetContext sets the request context into the context.
func SetContext(ctx context.Context, c *RequestContext) (newctx context.Context) {
	return context.WithValue(ctx, reqctx(255), c)
}
