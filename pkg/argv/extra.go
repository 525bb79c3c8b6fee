// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Duration decodes a Go duration literal such as "1m30s".
func Duration() Decoder {
	return tokenDecoder{name: "duration", parse: func(s string) (any, bool) {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, false
		}
		return d, true
	}}
}

// URL decodes an absolute URL into a *url.URL.
func URL() Decoder {
	return tokenDecoder{name: "url", parse: func(s string) (any, bool) {
		u, err := url.Parse(s)
		if err != nil || !u.IsAbs() {
			return nil, false
		}
		return u, true
	}}
}

// Port decodes a uint16 port number within [min, max]. A token that reads
// as a number but falls outside the range is consumed and rejected, like any
// Validate failure.
func Port(min, max uint16) Decoder {
	if min > max {
		panic(fmt.Sprintf("argv: invalid port range %d-%d", min, max))
	}
	d := Validate(Uint[uint16](), func(p uint16) bool {
		return p >= min && p <= max
	})
	return Rename(d, "port")
}

// UUID decodes a UUID in any form accepted by uuid.Parse.
func UUID() Decoder {
	return tokenDecoder{name: "uuid", parse: func(s string) (any, bool) {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, false
		}
		return id, true
	}}
}

// SemVer decodes a semantic version, with or without a leading "v".
func SemVer() Decoder {
	return tokenDecoder{name: "semver", parse: func(s string) (any, bool) {
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil, false
		}
		return v, true
	}}
}
