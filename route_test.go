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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute_Execute(t *testing.T) {
	route := Route{
		Name:   "get_user",
		Method: "GET",
		Path:   "/users/{id}",
		Params: []Argument{NewArgument("id", ""), NewArgument("verbose", false).Optional()},
		Handler: func(args Arguments) (interface{}, error) {
			return "user " + args.String("id"), nil
		},
	}

	result, err := route.Execute(Arguments{"id": "42"})
	assert.NoError(t, err)
	assert.Equal(t, "user 42", result)

	_, err = route.Execute(Arguments{"verbose": true})
	assert.True(t, errors.Is(err, ErrMissingArgument))
	assert.EqualError(t, err, "missing the route argument 'id': name=get_user, path=/users/{id}, method=GET")

	_, err = Route{Name: "noop"}.Execute(nil)
	assert.True(t, errors.Is(err, ErrNoHandler))
}

func TestArguments(t *testing.T) {
	args := Arguments{"name": "xgfone", "age": 18}
	assert.Equal(t, "xgfone", args.String("name"))
	assert.Equal(t, "", args.String("age"))
	assert.Equal(t, 18, args.Get("age"))
	assert.Nil(t, args.Get("missing"))

	_, ok := args.Lookup("missing")
	assert.False(t, ok)

	v, ok := Bound(nil).Value()
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.False(t, Unbound().IsBound())
	assert.True(t, Bound(0).IsBound())
}
