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
	"errors"
	"fmt"

	"github.com/xgfone/berth/herror"
)

// Some non-HTTP errors.
var (
	ErrNoMatchedRoute    = errors.New("no matched route")
	ErrAlreadyDispatched = errors.New("request context has already been dispatched")
	ErrMissingArgument   = errors.New("missing the route argument")
	ErrNoHandler         = errors.New("route has no handler")
)

// Re-export some HTTP errors.
var (
	ErrBadRequest            = herror.ErrBadRequest
	ErrNotFound              = herror.ErrNotFound
	ErrMethodNotAllowed      = herror.ErrMethodNotAllowed
	ErrRequestEntityTooLarge = herror.ErrRequestEntityTooLarge
	ErrUnsupportedMediaType  = herror.ErrUnsupportedMediaType
	ErrInternalServerError   = herror.ErrInternalServerError
	ErrServiceUnavailable    = herror.ErrServiceUnavailable
)

// HTTPError is the alias of herror.HTTPError.
type HTTPError = herror.HTTPError

// NewHTTPError is the alias of herror.NewHTTPError.
var NewHTTPError = herror.NewHTTPError

// DispatchError is the failure escaping from the dispatch unit of work,
// which is returned to the executor instead of being transmitted.
//
// The failure policy of the executor owns the context from then on:
// it should respond to the peer and call Context.Release.
type DispatchError struct {
	Context *RequestContext
	Err     error
}

func (e *DispatchError) Error() string {
	if req := e.Context.Request(); req != nil {
		return fmt.Sprintf("dispatch %s %s: %s", req.Method, req.URL.Path, e.Err)
	}
	return fmt.Sprintf("dispatch: %s", e.Err)
}

// Unwrap unwraps the inner error.
func (e *DispatchError) Unwrap() error { return e.Err }
