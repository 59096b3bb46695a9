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

// Package render provides the strategies to serialize the result of a route
// into the response body.
package render

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

// Encoder is the interface to serialize a value into the response body.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v interface{}) error
}

// Marshaler is used to marshal a value into w.
type Marshaler func(w io.Writer, v interface{}) error

type simpleEncoder struct {
	ct  string
	enc Marshaler
}

func (e simpleEncoder) ContentType() string                     { return e.ct }
func (e simpleEncoder) Encode(w io.Writer, v interface{}) error { return e.enc(w, v) }

// SimpleEncoder returns a new Encoder with the content type and marshaler.
func SimpleEncoder(contentType string, marshaler Marshaler) Encoder {
	if marshaler == nil {
		panic("render: the marshaler must not be nil")
	}
	return simpleEncoder{ct: contentType, enc: marshaler}
}

// Text returns a plain text encoder, which is the default strategy.
//
// The value is written as follow:
//
//   - []byte: as it is
//   - string: as it is
//   - error: the result of Error()
//   - fmt.Stringer: the result of String()
//   - others: the result of fmt.Fprint
func Text() Encoder {
	return SimpleEncoder("text/plain; charset=UTF-8", func(w io.Writer, v interface{}) (err error) {
		switch s := v.(type) {
		case []byte:
			_, err = w.Write(s)
		case string:
			_, err = io.WriteString(w, s)
		case error:
			_, err = io.WriteString(w, s.Error())
		case fmt.Stringer:
			_, err = io.WriteString(w, s.String())
		default:
			_, err = fmt.Fprint(w, v)
		}
		return
	})
}

// JSON returns a JSON encoder.
func JSON() Encoder {
	return SimpleEncoder("application/json; charset=UTF-8", func(w io.Writer, v interface{}) error {
		return json.NewEncoder(w).Encode(v)
	})
}

// JSONPretty returns a JSON encoder with the indent.
func JSONPretty(indent string) Encoder {
	return SimpleEncoder("application/json; charset=UTF-8", func(w io.Writer, v interface{}) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", indent)
		return enc.Encode(v)
	})
}

// XML returns a XML encoder.
//
// Notice: it won't add the XML header.
func XML() Encoder {
	return SimpleEncoder("application/xml; charset=UTF-8", func(w io.Writer, v interface{}) error {
		return xml.NewEncoder(w).Encode(v)
	})
}

var encoders = map[string]Encoder{
	"text":       Text(),
	"json":       JSON(),
	"jsonpretty": JSONPretty("    "),
	"xml":        XML(),
}

// ByName returns the registered encoder by the name, such as "text",
// "json", "jsonpretty" or "xml".
//
// Return nil if not found.
func ByName(name string) Encoder { return encoders[name] }

// Names returns the sorted names of all the registered encoders.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
