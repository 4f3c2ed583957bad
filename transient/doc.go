// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport errors: timeouts, refused and
// reset connections, and cancellations. Descriptor errors expose the
// category of their transport cause, and the HTTP transport uses it
// for retry decisions, log fields and metric labels.
//
// Package transient depends only on the standard library.
package transient
