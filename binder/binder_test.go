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

package binder

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xgfone/berth"
)

type user struct {
	ID   int    `json:"id" xml:"id" form:"id" validate:"gt=0"`
	Name string `json:"name" xml:"name" form:"name" validate:"required"`
}

func newRequest(ct, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
	if ct != "" {
		req.Header.Set(berth.HeaderContentType, ct)
	}
	return req
}

func bind(t *testing.T, b berth.BodyBinder, arg berth.Argument, req *http.Request) (interface{}, bool) {
	t.Helper()
	result, err := b.Bind(arg, req)
	require.NoError(t, err)
	return result.Value()
}

func TestJSON(t *testing.T) {
	req := newRequest(berth.MIMEApplicationJSON, `{"id":1,"name":"xgfone"}`)

	v, ok := bind(t, JSON(), berth.NewArgument("user", user{}), req)
	assert.True(t, ok)
	assert.Equal(t, user{ID: 1, Name: "xgfone"}, v)

	// The body can be read again.
	v, ok = bind(t, JSON(), berth.NewArgument("user", &user{}), req)
	assert.True(t, ok)
	assert.Equal(t, &user{ID: 1, Name: "xgfone"}, v)

	v, ok = bind(t, JSON(), berth.Argument{Name: "any"}, req)
	assert.True(t, ok)
	assert.Equal(t, map[string]interface{}{"id": float64(1), "name": "xgfone"}, v)

	_, ok = bind(t, JSON(), berth.NewArgument("user", user{}), newRequest("", `{"id":`))
	assert.False(t, ok)

	_, ok = bind(t, JSON(), berth.NewArgument("user", user{}), newRequest("", `{"id":"abc"}`))
	assert.False(t, ok)

	_, ok = bind(t, JSON(), berth.NewArgument("user", user{}), newRequest("", ""))
	assert.False(t, ok)

	v, ok = bind(t, JSON(), berth.NewArgument("user", user{}).Optional(), newRequest("", ""))
	assert.True(t, ok)
	assert.Equal(t, user{}, v)
}

func TestJSONField(t *testing.T) {
	req := newRequest(berth.MIMEApplicationJSON, `{"id":42,"tags":["a","b"]}`)

	v, ok := bind(t, JSONField(), berth.NewArgument("id", 0), req)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	v, ok = bind(t, JSONField(), berth.NewArgument("tags", []string(nil)), req)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)

	_, ok = bind(t, JSONField(), berth.NewArgument("name", ""), req)
	assert.False(t, ok)

	v, ok = bind(t, JSONField(), berth.NewArgument("name", "").Optional(), req)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = bind(t, JSONField(), berth.NewArgument("id", ""), req)
	assert.False(t, ok)

	_, ok = bind(t, JSONField(), berth.NewArgument("id", 0), newRequest("", `[1,2]`))
	assert.False(t, ok)
}

func TestXML(t *testing.T) {
	req := newRequest(berth.MIMEApplicationXML, `<user><id>2</id><name>berth</name></user>`)
	v, ok := bind(t, XML(), berth.NewArgument("user", user{}), req)
	assert.True(t, ok)
	assert.Equal(t, user{ID: 2, Name: "berth"}, v)

	_, ok = bind(t, XML(), berth.NewArgument("user", user{}), newRequest("", `<user>`))
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	req := newRequest(berth.MIMETextPlain, "hello")

	v, ok := bind(t, Text(), berth.NewArgument("s", ""), req)
	assert.True(t, ok)
	assert.Equal(t, "hello", v)

	v, ok = bind(t, Text(), berth.NewArgument("b", []byte(nil)), req)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), v)

	_, ok = bind(t, Text(), berth.NewArgument("s", ""), newRequest("", ""))
	assert.False(t, ok)

	v, ok = bind(t, Text(), berth.NewArgument("s", "").Optional(), newRequest("", ""))
	assert.True(t, ok)
	assert.Equal(t, "", v)

	// Without GetBody, the body is read directly.
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("direct"))
	v, ok = bind(t, Text(), berth.NewArgument("s", ""), req)
	assert.True(t, ok)
	assert.Equal(t, "direct", v)
}

func TestText_ReadError(t *testing.T) {
	readErr := errors.New("connection reset")
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.GetBody = func() (io.ReadCloser, error) { return nil, readErr }

	result, err := Text().Bind(berth.NewArgument("s", ""), req)
	assert.Equal(t, readErr, err)
	assert.False(t, result.IsBound())
}

func TestForm(t *testing.T) {
	form := Form(0)
	req := newRequest(berth.MIMEApplicationForm, "id=3&name=xgfone&tags=a&tags=b&age=x")

	v, ok := bind(t, form, berth.NewArgument("id", 0), req)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = bind(t, form, berth.Argument{Name: "name"}, req)
	assert.True(t, ok)
	assert.Equal(t, "xgfone", v)

	v, ok = bind(t, form, berth.NewArgument("user", &user{}), req)
	assert.True(t, ok)
	assert.Equal(t, &user{ID: 3, Name: "xgfone"}, v)

	_, ok = bind(t, form, berth.NewArgument("age", 0), req)
	assert.False(t, ok)

	_, ok = bind(t, form, berth.NewArgument("missing", ""), req)
	assert.False(t, ok)

	v, ok = bind(t, form, berth.NewArgument("missing", 0).Optional(), req)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestForm_Multipart(t *testing.T) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	mw.WriteField("id", "4")
	mw.WriteField("name", "multipart")
	mw.Close()

	req := newRequest(mw.FormDataContentType(), buf.String())
	v, ok := bind(t, Form(1024), berth.NewArgument("user", user{}), req)
	assert.True(t, ok)
	assert.Equal(t, user{ID: 4, Name: "multipart"}, v)
}

func TestMux(t *testing.T) {
	mux := Default(0)
	arg := berth.NewArgument("user", user{})

	v, ok := bind(t, mux, arg, newRequest("application/json; charset=UTF-8", `{"id":5,"name":"a"}`))
	assert.True(t, ok)
	assert.Equal(t, user{ID: 5, Name: "a"}, v)

	v, ok = bind(t, mux, arg, newRequest(berth.MIMEApplicationForm, "id=6&name=b"))
	assert.True(t, ok)
	assert.Equal(t, user{ID: 6, Name: "b"}, v)

	_, ok = bind(t, mux, arg, newRequest("application/octet-stream", "xxx"))
	assert.False(t, ok)

	_, ok = bind(t, mux, arg, newRequest("", `{"id":5}`))
	assert.False(t, ok)

	assert.Panics(t, func() { mux.Add("text/html", nil) })
}

func TestValidated(t *testing.T) {
	b := Validated(JSON(), validator.New(), "")
	arg := berth.NewArgument("user", user{})

	v, ok := bind(t, b, arg, newRequest("", `{"id":1,"name":"a"}`))
	assert.True(t, ok)
	assert.Equal(t, user{ID: 1, Name: "a"}, v)

	_, ok = bind(t, b, arg, newRequest("", `{"id":0,"name":"a"}`))
	assert.False(t, ok)

	_, ok = bind(t, b, berth.NewArgument("user", &user{}), newRequest("", `{"id":1}`))
	assert.False(t, ok)

	b = Validated(JSONField(), nil, "min=1,max=10")
	_, ok = bind(t, b, berth.NewArgument("id", 0), newRequest("", `{"id":11}`))
	assert.False(t, ok)

	v, ok = bind(t, b, berth.NewArgument("id", 0), newRequest("", `{"id":10}`))
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}

type unix time.Time

func (u *unix) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.RFC3339, string(b))
	*u = unix(t)
	return err
}

func TestBindValues(t *testing.T) {
	type Embed struct {
		Score float64
	}

	var v struct {
		Embed
		Flag    bool     `form:"flag"`
		Count   uint8    `form:"count"`
		Tags    []string `form:"tags"`
		Data    []byte   `form:"data"`
		Ptr     *int     `form:"ptr"`
		Time    unix     `form:"time"`
		Ignore  string   `form:"-"`
		private string
	}

	data := map[string][]string{
		"flag":   {"true"},
		"count":  {"255"},
		"tags":   {"a", "b"},
		"data":   {"raw"},
		"ptr":    {"7"},
		"time":   {"2026-01-02T03:04:05Z"},
		"score":  {"1.5"},
		"Ignore": {"x"},
	}
	require.NoError(t, bindValues(reflect.ValueOf(&v).Elem(), data, "form"))

	assert.True(t, v.Flag)
	assert.Equal(t, uint8(255), v.Count)
	assert.Equal(t, []string{"a", "b"}, v.Tags)
	assert.Equal(t, []byte("raw"), v.Data)
	assert.Equal(t, 7, *v.Ptr)
	assert.Equal(t, 2026, time.Time(v.Time).Year())
	assert.Equal(t, 1.5, v.Score)
	assert.Equal(t, "", v.Ignore)

	err := bindValues(reflect.ValueOf(&v).Elem(), map[string][]string{"count": {"256"}}, "form")
	assert.Error(t, err)
}
