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

package main

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xgfone/berth"
	"github.com/xgfone/berth/binder"
	"github.com/xgfone/berth/server"
)

// User is the body of the demo route "POST /users/{id}".
type User struct {
	ID    string    `json:"id" xml:"id"`
	Name  string    `json:"name" xml:"name" form:"name" validate:"required"`
	Email string    `json:"email,omitempty" xml:"email,omitempty" form:"email" validate:"omitempty,email"`
	Time  time.Time `json:"time" xml:"time"`
}

func registerRoutes(s *server.Server) {
	s.HandleRoute(&berth.Route{
		Name:    "ping",
		Method:  http.MethodGet,
		Path:    "/ping",
		Handler: func(berth.Arguments) (interface{}, error) { return "pong", nil },
	})

	s.HandleRoute(&berth.Route{
		Name:   "echo",
		Method: http.MethodPost,
		Path:   "/echo",
		Params: []berth.Argument{berth.NewArgument("body", "")},
		Handler: func(args berth.Arguments) (interface{}, error) {
			return args.String("body"), nil
		},
	}, server.Body(berth.NewArgument("body", ""), binder.Text()))

	body := binder.Validated(binder.Default(0), validator.New(), "")
	s.HandleRoute(&berth.Route{
		Name:   "update_user",
		Method: http.MethodPost,
		Path:   "/users/{id}",
		Params: []berth.Argument{berth.NewArgument("id", ""), berth.NewArgument("user", &User{})},
		Handler: func(args berth.Arguments) (interface{}, error) {
			user := args.Get("user").(*User)
			user.ID = args.String("id")
			user.Time = time.Now().UTC()
			return user, nil
		},
	}, server.Body(berth.NewArgument("user", &User{}), body))
}
