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
	"net/http"

	"github.com/xgfone/berth/render"
)

// Transmitter owns the single outbound reply of a request.
//
// Each method is the terminal write for the request, and the caller
// must call only one of them once.
type Transmitter interface {
	SendBadRequest(ch *Response) error
	SendSuccess(ch *Response, v interface{}) error
	SendError(ch *Response, err error) error
}

// ResponseTransmitter is the default implementation of Transmitter,
// which serializes the success value by the encoder.
type ResponseTransmitter struct {
	Encoder render.Encoder
}

// NewResponseTransmitter returns a new ResponseTransmitter.
//
// If encoder is nil, it is render.Text() by default.
func NewResponseTransmitter(encoder render.Encoder) *ResponseTransmitter {
	if encoder == nil {
		encoder = render.Text()
	}
	return &ResponseTransmitter{Encoder: encoder}
}

// SendBadRequest implements the interface Transmitter.
func (t *ResponseTransmitter) SendBadRequest(ch *Response) error {
	return t.sendText(ch, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
}

// SendSuccess implements the interface Transmitter.
//
// If v is nil, only send the status code 200. If v is a HTTPError,
// it is the same as SendError.
func (t *ResponseTransmitter) SendSuccess(ch *Response, v interface{}) error {
	switch e := v.(type) {
	case nil:
		ch.WriteHeader(http.StatusOK)
		return nil
	case HTTPError:
		return t.SendError(ch, e)
	}

	buf := getBuffer()
	defer putBuffer(buf)
	if err := t.Encoder.Encode(buf, v); err != nil {
		return err
	}

	ch.Header().Set(HeaderContentType, t.Encoder.ContentType())
	ch.WriteHeader(http.StatusOK)
	_, err := ch.Write(buf.Bytes())
	return err
}

// SendError implements the interface Transmitter.
//
// If err is or wraps a HTTPError, use its status code. Or, use 500.
func (t *ResponseTransmitter) SendError(ch *Response, err error) error {
	var he HTTPError
	if !errors.As(err, &he) {
		he = ErrInternalServerError.New(err)
	}

	if he.CT != "" {
		ch.Header().Set(HeaderContentType, he.CT)
		ch.WriteHeader(he.Code)
		_, err = ch.WriteString(he.Message())
		return err
	}
	return t.sendText(ch, he.Code, he.Message())
}

func (t *ResponseTransmitter) sendText(ch *Response, code int, text string) (err error) {
	header := ch.Header()
	header.Set(HeaderContentType, MIMETextPlainCharsetUTF8)
	header.Set(HeaderXContentTypeOptions, "nosniff")
	ch.WriteHeader(code)
	_, err = ch.WriteString(text)
	return
}
