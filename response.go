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
	"io"
	"net/http"
)

// Response is the outbound channel of a request, which implements
// http.ResponseWriter and writes the status line on the wire at most once.
type Response struct {
	http.ResponseWriter

	Size   int64
	Wrote  bool
	Status int
}

// NewResponse returns a new instance of Response.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{ResponseWriter: w, Status: http.StatusOK}
}

// WriteHeader implements http.ResponseWriter#WriteHeader().
//
// Only the first call takes effect.
func (r *Response) WriteHeader(code int) {
	if !r.Wrote {
		r.Wrote = true
		r.Status = code
		r.ResponseWriter.WriteHeader(code)
	}
}

// Write implements http.ResponseWriter#Writer().
func (r *Response) Write(b []byte) (n int, err error) {
	if len(b) == 0 {
		return
	}

	r.WriteHeader(http.StatusOK)
	n, err = r.ResponseWriter.Write(b)
	r.Size += int64(n)
	return
}

// WriteString implements io.StringWriter.
func (r *Response) WriteString(s string) (n int, err error) {
	if len(s) == 0 {
		return
	}

	r.WriteHeader(http.StatusOK)
	n, err = io.WriteString(r.ResponseWriter, s)
	r.Size += int64(n)
	return
}

// Flush implements the http.Flusher interface.
func (r *Response) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap returns the underlying http.ResponseWriter,
// which is used by http.ResponseController.
func (r *Response) Unwrap() http.ResponseWriter { return r.ResponseWriter }
