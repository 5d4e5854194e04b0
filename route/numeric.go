// Copyright 2025 The Rivaas Authors
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

package route

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt64 parses an integer literal under the route grammar: an optional
// leading sign, then decimal digits, 0x-prefixed hex digits, 0b-prefixed
// binary digits, or binary digits with a trailing b. Underscore digit-group
// separators are stripped before parsing, so "1_000" and "0x_1F" are valid.
// Values that do not fit in 64 bits fail.
//
// Example:
//
//	route.ParseInt64("1_000") // 1000, true
//	route.ParseInt64("0x_1F") // 31, true
//	route.ParseInt64("101b")  // 5, true
func ParseInt64(s string) (int64, bool) {
	if strings.ContainsRune(s, '_') {
		s = strings.ReplaceAll(s, "_", "")
	}
	if s == "" {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	var mag uint64
	var err error
	switch {
	case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		mag, err = strconv.ParseUint(s[2:], 16, 64)
	case len(s) > 1 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
		mag, err = strconv.ParseUint(s[2:], 2, 64)
	case len(s) > 1 && (s[len(s)-1] == 'b' || s[len(s)-1] == 'B'):
		mag, err = strconv.ParseUint(s[:len(s)-1], 2, 64)
	default:
		mag, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, false
	}

	if neg {
		if mag > 1<<63 {
			return 0, false
		}
		if mag == 1<<63 {
			return math.MinInt64, true
		}
		return -int64(mag), true
	}
	if mag > math.MaxInt64 {
		return 0, false
	}
	return int64(mag), true
}

// ParseInt32 parses an integer literal under the same grammar as ParseInt64
// and additionally requires the value to fit in 32 bits. The range check
// runs against the 64-bit intermediate, so out-of-range literals fail
// rather than wrap.
func ParseInt32(s string) (int32, bool) {
	v, ok := ParseInt64(s)
	if !ok || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}
