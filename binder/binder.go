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

// Package binder provides the body binders to resolve the deferred
// route arguments from the received request body.
package binder

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xgfone/berth"
)

// DefaultMaxMemory is the default maximum memory to parse the multipart form.
const DefaultMaxMemory = 32 << 20

var ifaceType = reflect.TypeOf((*interface{})(nil)).Elem()

// ReadBody reads the whole body of the request.
//
// If req.GetBody is set, it reads a fresh copy so that the body
// can be read by more than one binder.
func ReadBody(req *http.Request) ([]byte, error) {
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return io.ReadAll(body)
	}

	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	return io.ReadAll(req.Body)
}

// newValue returns the pointer to a new zero value of the argument type.
func newValue(arg berth.Argument) reflect.Value {
	switch {
	case arg.Type == nil:
		return reflect.New(ifaceType)
	case arg.Type.Kind() == reflect.Ptr:
		return reflect.New(arg.Type.Elem())
	default:
		return reflect.New(arg.Type)
	}
}

// valueOf returns the value pointed by ptr as the argument type.
func valueOf(arg berth.Argument, ptr reflect.Value) interface{} {
	if arg.Type != nil && arg.Type.Kind() == reflect.Ptr {
		return ptr.Interface()
	}
	return ptr.Elem().Interface()
}

// zero returns the bound zero value of the argument, or unbound
// if the argument is required.
func zero(arg berth.Argument) berth.BindResult {
	if arg.Required {
		return berth.Unbound()
	} else if arg.Type == nil {
		return berth.Bound(nil)
	}
	return berth.Bound(reflect.Zero(arg.Type).Interface())
}

type unmarshalFunc func(data []byte, v interface{}) error

func decode(unmarshal unmarshalFunc) berth.BodyBinder {
	return berth.BodyBinderFunc(func(arg berth.Argument, req *http.Request) (berth.BindResult, error) {
		data, err := ReadBody(req)
		if err != nil {
			return berth.Unbound(), err
		} else if len(data) == 0 {
			return zero(arg), nil
		}

		ptr := newValue(arg)
		if err = unmarshal(data, ptr.Interface()); err != nil {
			return berth.Unbound(), nil
		}
		return berth.Bound(valueOf(arg, ptr)), nil
	})
}

// JSON returns a body binder to decode the whole body as JSON
// into the value of the argument type.
//
// If the argument type is nil, the value is decoded as interface{}.
func JSON() berth.BodyBinder { return decode(json.Unmarshal) }

// XML returns a body binder to decode the whole body as XML
// into the value of the argument type.
func XML() berth.BodyBinder { return decode(xml.Unmarshal) }

// JSONField returns a body binder to decode the top-level field,
// whose name is the argument name, of the JSON object body.
func JSONField() berth.BodyBinder {
	return berth.BodyBinderFunc(func(arg berth.Argument, req *http.Request) (berth.BindResult, error) {
		data, err := ReadBody(req)
		if err != nil {
			return berth.Unbound(), err
		}

		var fields map[string]json.RawMessage
		if len(data) > 0 {
			if err = json.Unmarshal(data, &fields); err != nil {
				return berth.Unbound(), nil
			}
		}

		field, ok := fields[arg.Name]
		if !ok {
			return zero(arg), nil
		}

		ptr := newValue(arg)
		if err = json.Unmarshal(field, ptr.Interface()); err != nil {
			return berth.Unbound(), nil
		}
		return berth.Bound(valueOf(arg, ptr)), nil
	})
}

// Text returns a body binder to bind the whole body as string,
// or []byte if the argument type is []byte.
//
// The empty body is unbound if the argument is required.
func Text() berth.BodyBinder {
	return berth.BodyBinderFunc(func(arg berth.Argument, req *http.Request) (berth.BindResult, error) {
		data, err := ReadBody(req)
		if err != nil {
			return berth.Unbound(), err
		} else if len(data) == 0 && arg.Required {
			return berth.Unbound(), nil
		}

		if arg.Type != nil && arg.Type.Kind() == reflect.Slice &&
			arg.Type.Elem().Kind() == reflect.Uint8 {
			return berth.Bound(data), nil
		}
		return berth.Bound(string(data)), nil
	})
}

// Form returns a body binder to bind the argument from the urlencoded
// or multipart form body.
//
// If the argument type is a struct or a pointer to struct, the fields are
// bound by the tag "form". Or, the form field named the argument name is
// converted to the argument type, which is string if nil.
//
// If maxMemory is not positive, it is DefaultMaxMemory. The file parts
// beyond maxMemory are stored in temporary files, which are removed
// when the request context is released.
func Form(maxMemory int64) berth.BodyBinder {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	return berth.BodyBinderFunc(func(arg berth.Argument, req *http.Request) (berth.BindResult, error) {
		if req.PostForm == nil {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return berth.Unbound(), err
				}
				req.Body = body
			}

			var err error
			if isMultipart(req) {
				err = req.ParseMultipartForm(maxMemory)
			} else {
				err = req.ParseForm()
			}
			if err != nil {
				return berth.Unbound(), nil
			}
		}

		if t := indirect(arg.Type); t != nil && t.Kind() == reflect.Struct {
			ptr := reflect.New(t)
			if err := bindValues(ptr.Elem(), req.PostForm, "form"); err != nil {
				return berth.Unbound(), nil
			}
			return berth.Bound(valueOf(arg, ptr)), nil
		}

		values, ok := req.PostForm[arg.Name]
		if !ok || len(values) == 0 {
			return zero(arg), nil
		}

		if arg.Type == nil {
			return berth.Bound(values[0]), nil
		}

		ptr := newValue(arg)
		if err := setValue(ptr.Elem(), values[0]); err != nil {
			return berth.Unbound(), nil
		}
		return berth.Bound(valueOf(arg, ptr)), nil
	})
}

func indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func mediaType(req *http.Request) string {
	ct := req.Header.Get(berth.HeaderContentType)
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	if index := strings.IndexByte(ct, ';'); index > -1 {
		ct = ct[:index]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func isMultipart(req *http.Request) bool {
	return mediaType(req) == berth.MIMEMultipartForm
}

// Mux is a body binder to dispatch the binding to the binder
// registered for the media type of the request.
type Mux struct {
	binders map[string]berth.BodyBinder
}

var _ berth.BodyBinder = &Mux{}

// NewMux returns a new empty Mux.
func NewMux() *Mux { return &Mux{binders: make(map[string]berth.BodyBinder, 8)} }

// Default returns a new Mux with the binders for JSON, XML, form
// and plain text.
func Default(maxMemory int64) *Mux {
	form := Form(maxMemory)
	return NewMux().
		Add(berth.MIMEApplicationJSON, JSON()).
		Add(berth.MIMEApplicationXML, XML()).
		Add(berth.MIMEApplicationForm, form).
		Add(berth.MIMEMultipartForm, form).
		Add(berth.MIMETextPlain, Text())
}

// Add registers the binder for the media type, such as "application/json",
// and returns itself.
func (m *Mux) Add(mediaType string, binder berth.BodyBinder) *Mux {
	if binder == nil {
		panic("binder: the binder must not be nil")
	}
	m.binders[strings.ToLower(mediaType)] = binder
	return m
}

// Bind implements the interface berth.BodyBinder.
//
// The argument is unbound if no binder is registered for the media type.
func (m *Mux) Bind(arg berth.Argument, req *http.Request) (berth.BindResult, error) {
	if binder, ok := m.binders[mediaType(req)]; ok {
		return binder.Bind(arg, req)
	}
	return berth.Unbound(), nil
}

// Validated returns a new body binder to validate the value bound by binder,
// which is unbound if the validation fails.
//
// The struct value is validated by the struct tags, and the other value
// is validated by tag if it is not empty. If v is nil, use validator.New().
func Validated(binder berth.BodyBinder, v *validator.Validate, tag string) berth.BodyBinder {
	if v == nil {
		v = validator.New()
	}

	return berth.BodyBinderFunc(func(arg berth.Argument, req *http.Request) (berth.BindResult, error) {
		result, err := binder.Bind(arg, req)
		if err != nil || !result.IsBound() {
			return result, err
		}

		value, _ := result.Value()
		if rv := reflect.ValueOf(value); !rv.IsValid() ||
			(rv.Kind() == reflect.Ptr && rv.IsNil()) {
			return result, nil
		}

		if t := indirect(reflect.TypeOf(value)); t.Kind() == reflect.Struct {
			err = v.Struct(value)
		} else if tag != "" {
			err = v.Var(value, tag)
		}

		var verrs validator.ValidationErrors
		switch {
		case err == nil:
			return result, nil
		case errors.As(err, &verrs):
			return berth.Unbound(), nil
		default:
			return berth.Unbound(), err
		}
	})
}
