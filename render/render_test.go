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

package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stringer struct{ name string }

func (s stringer) String() string { return "stringer:" + s.name }

func TestText(t *testing.T) {
	enc := Text()
	assert.Equal(t, "text/plain; charset=UTF-8", enc.ContentType())

	for _, c := range []struct {
		in  interface{}
		out string
	}{
		{"ok", "ok"},
		{[]byte("raw"), "raw"},
		{errors.New("boom"), "boom"},
		{stringer{"abc"}, "stringer:abc"},
		{123, "123"},
	} {
		buf := bytes.NewBuffer(nil)
		if assert.NoError(t, enc.Encode(buf, c.in)) {
			assert.Equal(t, c.out, buf.String())
		}
	}
}

func TestByName(t *testing.T) {
	assert.Equal(t, []string{"json", "jsonpretty", "text", "xml"}, Names())
	assert.NotNil(t, ByName("json"))
	assert.Nil(t, ByName("yaml"))
	assert.Panics(t, func() { SimpleEncoder("text/plain", nil) })
}

func ExampleEncoder() {
	type Data struct {
		Key1 int
		Key2 string
	}
	data := Data{Key1: 123, Key2: "abc"}

	for _, name := range []string{"json", "jsonpretty", "xml"} {
		ByName(name).Encode(os.Stdout, data)
	}
	fmt.Println()

	// Output:
	// {"Key1":123,"Key2":"abc"}
	// {
	//     "Key1": 123,
	//     "Key2": "abc"
	// }
	// <Data><Key1>123</Key1><Key2>abc</Key2></Data>
}
