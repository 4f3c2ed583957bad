// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting per-attempt timeouts in
// the HTTP transport. The default policy, FromSpec, honours the timeout
// carried by each request.Spec.
package timeout
