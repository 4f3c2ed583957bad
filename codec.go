// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"encoding/json"
	"encoding/xml"

	"github.com/gogama/endpoint/request"
)

// A Codec encodes request bodies and decodes response bodies for the
// convenience constructors Decoding, DecodingWithBody and VoidWithBody.
//
// Decoding errors are returned to the caller untouched, so callers can
// inspect them with errors.As, for example for *json.SyntaxError.
type Codec interface {
	// ContentType is the media type used for Accept and Content-Type.
	ContentType() request.ContentType
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSON is the default codec, backed by encoding/json.
var JSON Codec = jsonCodec{}

// XML is a codec backed by encoding/xml.
var XML Codec = xmlCodec{}

type jsonCodec struct{}

func (jsonCodec) ContentType() request.ContentType { return request.JSON }

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type xmlCodec struct{}

func (xmlCodec) ContentType() request.ContentType { return request.XML }

func (xmlCodec) Marshal(v interface{}) ([]byte, error) { return xml.Marshal(v) }

func (xmlCodec) Unmarshal(data []byte, v interface{}) error { return xml.Unmarshal(data, v) }
