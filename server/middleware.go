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
	"math/rand"
	"net/http"
	"strings"

	"github.com/xgfone/berth"
)

const alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Use appends the middlewares running in the header phase, that's,
// before the route is matched and the body is received.
//
// It must be called before registering the routes.
func (s *Server) Use(middlewares ...func(http.Handler) http.Handler) {
	s.router.Use(middlewares...)
}

// GenerateToken returns a token generator which will produce a random token
// with the length n, which is composed of the characters in the charsets,
// which is alphanumeric by default.
func GenerateToken(n int, charsets ...string) func() string {
	charset := strings.Join(charsets, "")
	if charset == "" {
		charset = alphanumeric
	}

	return func() string {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = charset[rand.Intn(len(charset))]
		}
		return string(buf)
	}
}

// RequestID returns a X-Request-ID middleware.
//
// If the request header does not contain X-Request-ID, it will set a new one.
// If generate is nil, it is GenerateToken(32).
func RequestID(generate func() string) func(http.Handler) http.Handler {
	if generate == nil {
		generate = GenerateToken(32)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			xid := r.Header.Get(berth.HeaderXRequestID)
			if xid == "" {
				xid = generate()
				r.Header.Set(berth.HeaderXRequestID, xid)
			}
			w.Header().Set(berth.HeaderXRequestID, xid)
			next.ServeHTTP(w, r)
		})
	}
}
