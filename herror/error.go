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

// Package herror provides the errors carrying a HTTP status code.
package herror

import (
	"errors"
	"fmt"
	"net/http"
)

// Some HTTP errors.
var (
	ErrBadRequest            = NewHTTPError(http.StatusBadRequest)
	ErrNotFound              = NewHTTPError(http.StatusNotFound)
	ErrMethodNotAllowed      = NewHTTPError(http.StatusMethodNotAllowed)
	ErrRequestEntityTooLarge = NewHTTPError(http.StatusRequestEntityTooLarge)
	ErrUnsupportedMediaType  = NewHTTPError(http.StatusUnsupportedMediaType)
	ErrInternalServerError   = NewHTTPError(http.StatusInternalServerError)
	ErrServiceUnavailable    = NewHTTPError(http.StatusServiceUnavailable)
)

// HTTPError represents an error with HTTP Status Code.
type HTTPError struct {
	Code int
	Err  error
	CT   string // Content-Type
}

// NewHTTPError returns a new HTTPError.
func NewHTTPError(code int, msg ...string) HTTPError {
	if len(msg) > 0 {
		return HTTPError{Code: code, Err: errors.New(msg[0])}
	}
	return HTTPError{Code: code}
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

// Unwrap unwraps the inner error.
func (e HTTPError) Unwrap() error { return e.Err }

// Message returns the text which is safe to send to the peer.
//
// For the server errors, that's, the code is not less than 500,
// the inner error is hidden and the status text is returned instead.
func (e HTTPError) Message() string {
	if e.Code < 500 && e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

// NewCT returns a new HTTPError with the new ContentType ct.
func (e HTTPError) NewCT(ct string) HTTPError { e.CT = ct; return e }

// New returns a new HTTPError with the new error.
func (e HTTPError) New(err error) HTTPError { e.Err = err; return e }

// Newf is equal to New(fmt.Errorf(msg, args...)).
func (e HTTPError) Newf(msg string, args ...interface{}) HTTPError {
	if len(args) == 0 {
		return e.New(errors.New(msg))
	}
	return e.New(fmt.Errorf(msg, args...))
}

// Is reports whether target is a HTTPError with the same status code,
// so that errors.Is(err, ErrBadRequest) matches any derived error.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Code == e.Code
}
