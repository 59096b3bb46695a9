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

import "fmt"

// RouteMatch is the handler selected by the router for a request.
type RouteMatch interface {
	// Execute executes the handler with the resolved arguments
	// and returns the result to be sent to the peer.
	Execute(args Arguments) (result interface{}, err error)
}

// RouteMatchFunc is a function type implementing the interface RouteMatch.
type RouteMatchFunc func(args Arguments) (interface{}, error)

// Execute implements the interface RouteMatch.
func (f RouteMatchFunc) Execute(args Arguments) (interface{}, error) { return f(args) }

// Route represents the information of a registered route.
type Route struct {
	Name   string
	Method string
	Path   string

	// Params is the declared arguments of the route.
	Params []Argument

	Handler func(Arguments) (interface{}, error)
}

// Execute implements the interface RouteMatch.
//
// It returns ErrMissingArgument if a required declared argument is missing.
func (r Route) Execute(args Arguments) (interface{}, error) {
	for _, p := range r.Params {
		if _, ok := args[p.Name]; !ok && p.Required {
			return nil, RouteError{Route: r, Err: fmt.Errorf("%w '%s'", ErrMissingArgument, p.Name)}
		}
	}

	if r.Handler == nil {
		return nil, RouteError{Route: r, Err: ErrNoHandler}
	}
	return r.Handler(args)
}

// RouteError represents a route error when executing a route.
type RouteError struct {
	Route Route
	Err   error
}

func (re RouteError) Error() string {
	return fmt.Sprintf("%s: name=%s, path=%s, method=%s",
		re.Err, re.Route.Name, re.Route.Path, re.Route.Method)
}

// Unwrap unwraps the inner error.
func (re RouteError) Unwrap() error { return re.Err }
