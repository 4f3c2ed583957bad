// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// BodyBytes converts a body parameter into the bytes a Spec stores.
//
// The result never aliases memory the caller can still reach, so later
// changes to a []byte passed in do not leak into a built Spec. An empty
// body of any kind becomes nil, which a Spec treats as no body.
//
// Accepted types are nil, string, []byte, json.RawMessage and
// io.Reader. A reader is read to the end and closed if it is also an
// io.Closer; a read or close error is returned with context. Any other
// type is an error.
func BodyBytes(body interface{}) ([]byte, error) {
	var b []byte
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		b = []byte(x)
	case []byte:
		b = bytes.Clone(x)
	case json.RawMessage:
		b = bytes.Clone(x)
	case io.Reader:
		var err error
		if b, err = readBody(x); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("endpoint/request: invalid body type %T "+
			"(use nil, string, []byte, json.RawMessage or io.Reader)", body)
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

func readBody(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "endpoint/request: reading body")
	}
	if c, ok := r.(io.Closer); ok {
		if err = c.Close(); err != nil {
			return nil, errors.Wrap(err, "endpoint/request: closing body")
		}
	}
	return b, nil
}
