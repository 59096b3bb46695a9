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

// Predefine some variables
const (
	CharsetUTF8 = "charset=UTF-8"
)

// MIME types
const (
	MIMETextPlain       = "text/plain"
	MIMEApplicationXML  = "application/xml"
	MIMEApplicationJSON = "application/json"
	MIMEApplicationForm = "application/x-www-form-urlencoded"
	MIMEMultipartForm   = "multipart/form-data"

	MIMETextPlainCharsetUTF8 = MIMETextPlain + "; " + CharsetUTF8
)

// Headers
const (
	HeaderAllow               = "Allow"
	HeaderContentLength       = "Content-Length"
	HeaderContentType         = "Content-Type"
	HeaderXRequestID          = "X-Request-Id"
	HeaderXContentTypeOptions = "X-Content-Type-Options"
)
