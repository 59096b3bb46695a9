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

// Package berth is the per-connection request dispatch core of a HTTP server
// running on top of a serialized execution context, such as an event loop.
//
// The transport creates a RequestContext when the request headers are parsed.
// Then the router sets the matched route and the route arguments known from
// the headers, and the binders which need the body register themselves
// as the deferred body arguments. Once the whole body is received,
// the transport calls Dispatch, which schedules a single unit of work
// on the executor to bind the deferred arguments in order, execute the route
// and transmit exactly one response.
//
// Example
//
//	ctx := berth.NewRequestContext(executor, req, w, nil)
//	ctx.SetMatchedRoute(berth.RouteMatchFunc(func(args berth.Arguments) (interface{}, error) {
//	    return "Hello, " + args.String("name"), nil
//	}))
//	ctx.AddBodyArgument(berth.NewArgument("name", ""), binder.Text())
//	if err := ctx.Dispatch(); err != nil {
//	    // The executor refuses the task.
//	}
//	<-ctx.Done()
package berth
