// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A ContentType is a media type used for the Accept and Content-Type
// headers. The zero value means no content type.
type ContentType struct {
	mime string
}

// Well-known content types.
var (
	Text = ContentType{"text/plain"}
	JSON = ContentType{"application/json"}
	XML  = ContentType{"application/xml"}
)

// CustomContentType returns a content type for an arbitrary media type,
// for example "application/vnd.api+json".
func CustomContentType(mime string) ContentType {
	return ContentType{mime}
}

// String returns the media type.
func (c ContentType) String() string {
	return c.mime
}

// IsZero reports whether c is the zero content type.
func (c ContentType) IsZero() bool {
	return c.mime == ""
}
