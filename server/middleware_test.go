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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xgfone/berth"
)

func TestRequestID(t *testing.T) {
	s := New()
	defer s.Stop(context.Background())

	s.Use(RequestID(func() string { return "abc" }))
	s.Handle(http.MethodGet, "/id", berth.RouteMatchFunc(func(berth.Arguments) (interface{}, error) {
		return "ok", nil
	}), Body(berth.Argument{Name: "xid"}, berth.BodyBinderFunc(func(arg berth.Argument, r *http.Request) (berth.BindResult, error) {
		return berth.Bound(r.Header.Get(berth.HeaderXRequestID)), nil
	})))

	rec := serve(s, http.MethodGet, "/id", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get(berth.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(berth.HeaderXRequestID, "xyz")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "xyz", rec.Header().Get(berth.HeaderXRequestID))

	assert.Panics(t, func() { s.Use(RequestID(nil)) })
}

func TestGenerateToken(t *testing.T) {
	token := GenerateToken(16)()
	assert.Len(t, token, 16)
	assert.Equal(t, "aaaa", GenerateToken(4, "a")())
}
