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
	"time"
)

// ParseTimeSpan parses a duration token under the route grammar. Three forms
// are accepted:
//
//   - colon form: [d.]hh:mm:ss[.fff], hours 0-23, minutes and seconds 0-59;
//   - ISO-8601: P[nD][T[nH][nM][nS]] with a fraction permitted on the final
//     component; week, year, and month designators are rejected;
//   - compact units: one or more <number><unit> groups with units d, h, m,
//     s, and ms, optionally whitespace-separated. A bare trailing number
//     after an h group is minutes and after an m group is seconds, so
//     "1h30" equals "1h30m".
//
// A leading sign applies to the whole duration, and underscore digit-group
// separators are stripped before parsing.
//
// Example:
//
//	route.ParseTimeSpan("1.02:03:04.5") // 26h3m4.5s, true
//	route.ParseTimeSpan("PT1H30M")      // 1h30m, true
//	route.ParseTimeSpan("-1h30")        // -1h30m, true
func ParseTimeSpan(s string) (time.Duration, bool) {
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

	var ns int64
	var ok bool
	switch {
	case s[0] == 'P' || s[0] == 'p':
		ns, ok = parseISODuration(s[1:])
	case strings.ContainsRune(s, ':'):
		ns, ok = parseColonDuration(s)
	default:
		ns, ok = parseUnitDuration(s)
	}
	if !ok {
		return 0, false
	}
	if neg {
		ns = -ns
	}
	return time.Duration(ns), true
}

// parseColonDuration parses [d.]hh:mm:ss[.fff].
func parseColonDuration(s string) (int64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}

	first := parts[0]
	var days int64
	if i := strings.IndexByte(first, '.'); i >= 0 {
		var ok bool
		days, ok = parseDigits(first[:i], 8)
		if !ok {
			return 0, false
		}
		first = first[i+1:]
	}

	hours, ok := parseDigits(first, 2)
	if !ok || hours > 23 {
		return 0, false
	}
	minutes, ok := parseDigits(parts[1], 2)
	if !ok || minutes > 59 {
		return 0, false
	}

	secPart := parts[2]
	var fracNs int64
	if i := strings.IndexByte(secPart, '.'); i >= 0 {
		fracNs, ok = parseFraction(secPart[i+1:])
		if !ok {
			return 0, false
		}
		secPart = secPart[:i]
	}
	seconds, ok := parseDigits(secPart, 2)
	if !ok || seconds > 59 {
		return 0, false
	}

	total := days*86400 + hours*3600 + minutes*60 + seconds
	if total > math.MaxInt64/int64(time.Second) {
		return 0, false
	}
	ns := total * int64(time.Second)
	if ns > math.MaxInt64-fracNs {
		return 0, false
	}
	return ns + fracNs, true
}

// parseISODuration parses the body after the P designator.
// Components must appear in D, H, M, S order without repeats; M before the
// T separator would be months and is rejected, as are weeks and years.
func parseISODuration(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	var total int64
	afterT := false
	sawComponent := false
	sawFraction := false
	rank := 0
	i := 0

	for i < len(s) {
		if s[i] == 'T' || s[i] == 't' {
			if afterT {
				return 0, false
			}
			afterT = true
			i++
			continue
		}
		if sawFraction {
			// A fraction is only valid on the final component.
			return 0, false
		}

		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return 0, false
		}
		intPart := s[start:i]

		fracPart := ""
		if i < len(s) && (s[i] == '.' || s[i] == ',') {
			i++
			fs := i
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			if i == fs {
				return 0, false
			}
			fracPart = s[fs:i]
		}
		if i >= len(s) {
			return 0, false
		}

		var scale time.Duration
		var r int
		switch s[i] {
		case 'D', 'd':
			if afterT {
				return 0, false
			}
			scale, r = 24*time.Hour, 1
		case 'H', 'h':
			if !afterT {
				return 0, false
			}
			scale, r = time.Hour, 2
		case 'M', 'm':
			if !afterT {
				return 0, false
			}
			scale, r = time.Minute, 3
		case 'S', 's':
			if !afterT {
				return 0, false
			}
			scale, r = time.Second, 4
		default:
			return 0, false
		}
		i++
		if r <= rank {
			return 0, false
		}
		rank = r
		if fracPart != "" {
			sawFraction = true
		}

		var ok bool
		total, ok = addScaled(total, intPart, fracPart, scale)
		if !ok {
			return 0, false
		}
		sawComponent = true
	}

	if !sawComponent {
		return 0, false
	}
	if afterT && rank < 2 {
		// A trailing T with no time component.
		return 0, false
	}
	return total, true
}

// parseUnitDuration parses the compact <number><unit> grammar. Whitespace
// between groups is tolerated. A bare trailing number takes its unit from
// the implicit-unit rule: minutes after an h group, seconds after an m group.
func parseUnitDuration(s string) (int64, bool) {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}

	var total int64
	lastUnit := ""
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return 0, false
		}
		intPart := s[start:i]

		fracPart := ""
		if i < len(s) && s[i] == '.' {
			i++
			fs := i
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			if i == fs {
				return 0, false
			}
			fracPart = s[fs:i]
		}

		us := i
		for i < len(s) && isASCIILetter(s[i]) {
			i++
		}
		unit := strings.ToLower(s[us:i])
		if unit == "" {
			if i != len(s) {
				return 0, false
			}
			switch lastUnit {
			case "h":
				unit = "m"
			case "m":
				unit = "s"
			default:
				return 0, false
			}
		}

		var scale time.Duration
		switch unit {
		case "d":
			scale = 24 * time.Hour
		case "h":
			scale = time.Hour
		case "m":
			scale = time.Minute
		case "s":
			scale = time.Second
		case "ms":
			scale = time.Millisecond
		default:
			return 0, false
		}

		var ok bool
		total, ok = addScaled(total, intPart, fracPart, scale)
		if !ok {
			return 0, false
		}
		lastUnit = unit
	}
	return total, true
}

// addScaled accumulates intPart.fracPart * scale nanoseconds onto total,
// failing on overflow.
func addScaled(total int64, intPart, fracPart string, scale time.Duration) (int64, bool) {
	n, err := strconv.ParseUint(intPart, 10, 63)
	if err != nil {
		return 0, false
	}
	v := int64(n)
	if v > math.MaxInt64/int64(scale) {
		return 0, false
	}
	add := v * int64(scale)

	if fracPart != "" {
		f, err := strconv.ParseFloat("0."+fracPart, 64)
		if err != nil {
			return 0, false
		}
		frac := int64(f * float64(scale))
		if add > math.MaxInt64-frac {
			return 0, false
		}
		add += frac
	}

	if total > math.MaxInt64-add {
		return 0, false
	}
	return total + add, true
}

// parseDigits parses a digit run of at most maxLen characters.
func parseDigits(s string, maxLen int) (int64, bool) {
	if s == "" || len(s) > maxLen {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, false
	}
	return int64(n), true
}

// parseFraction converts 1-9 fractional-second digits to nanoseconds.
func parseFraction(s string) (int64, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, false
	}
	ns := int64(n)
	for i := 0; i < 9-len(s); i++ {
		ns *= 10
	}
	return ns, true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
