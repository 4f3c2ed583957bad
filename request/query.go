// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	urlpkg "net/url"
	"sort"
	"strings"
)

// A Param is a single query parameter.
type Param struct {
	Name  string
	Value string
}

// SortedParams converts m to a parameter list ordered by name.
func SortedParams(m map[string]string) []Param {
	params := make([]Param, 0, len(m))
	for k, v := range m {
		params = append(params, Param{k, v})
	}
	sort.Slice(params, func(i, j int) bool {
		return params[i].Name < params[j].Name
	})
	return params
}

// appendQuery appends params to u's raw query. The existing query is
// kept byte for byte; names and values are percent-encoded with spaces
// as %20.
func appendQuery(u *urlpkg.URL, params []Param) {
	if len(params) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, p := range params {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.Name))
		b.WriteByte('=')
		b.WriteString(escape(p.Value))
	}
	u.RawQuery = b.String()
	u.ForceQuery = false
}

func escape(s string) string {
	return strings.ReplaceAll(urlpkg.QueryEscape(s), "+", "%20")
}
