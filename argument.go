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
	"net/http"
	"reflect"
)

// Argument is the descriptor of a route argument.
type Argument struct {
	Name string

	// Type is the type of the bound value. If nil, the binder decides it.
	Type reflect.Type

	// Required reports whether the route refuses to execute without it.
	Required bool
}

// NewArgument returns a new required argument whose type is the type of sample.
//
// If sample is nil, the type of the argument is nil.
func NewArgument(name string, sample interface{}) Argument {
	return Argument{Name: name, Type: reflect.TypeOf(sample), Required: true}
}

// Optional returns a copy of the argument which is not required.
func (a Argument) Optional() Argument { a.Required = false; return a }

// Arguments is the mapping from the argument name to the resolved value.
type Arguments map[string]interface{}

// Get returns the value of the argument named name.
//
// Return nil if not exist.
func (a Arguments) Get(name string) interface{} { return a[name] }

// Lookup is the same as Get, but also reports whether it exists.
func (a Arguments) Lookup(name string) (value interface{}, ok bool) {
	value, ok = a[name]
	return
}

// String returns the value of the argument named name as string.
//
// Return "" if not exist or it is not a string.
func (a Arguments) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// BindResult is the result of binding an argument, which is either bound
// with a value, the value may be nil, or unbound.
type BindResult struct {
	value interface{}
	bound bool
}

// Bound returns a BindResult bound with the value v.
func Bound(v interface{}) BindResult { return BindResult{value: v, bound: true} }

// Unbound returns a BindResult which means the argument is not satisfiable.
func Unbound() BindResult { return BindResult{} }

// Value returns the bound value and reports whether it is bound.
func (r BindResult) Value() (value interface{}, bound bool) { return r.value, r.bound }

// IsBound reports whether the result is bound.
func (r BindResult) IsBound() bool { return r.bound }

// BodyBinder is the interface to bind an argument from the request body,
// which is called only after the whole body has been received.
type BodyBinder interface {
	// Bind returns Unbound() if the body cannot satisfy the argument,
	// such as missing or malformed data.
	//
	// The error is only for the exceptional conditions, not for the bad input.
	Bind(arg Argument, req *http.Request) (BindResult, error)
}

// BodyBinderFunc is a function type implementing the interface BodyBinder.
type BodyBinderFunc func(arg Argument, req *http.Request) (BindResult, error)

// Bind implements the interface BodyBinder.
func (f BodyBinderFunc) Bind(arg Argument, req *http.Request) (BindResult, error) {
	return f(arg, req)
}

// DeferredArgument is an argument paired with the binder which resolves it
// once the body is available.
type DeferredArgument struct {
	Argument Argument
	Binder   BodyBinder
}
