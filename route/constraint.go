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
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Kind identifies the typed constraint of a dynamic segment.
//
// Declaration order is the specificity order: when several dynamic segments
// could accept the same token, the segment with the higher Kind wins.
// KindCustom ranks above every built-in kind.
type Kind uint8

const (
	KindString Kind = iota // any token (default when no constraint is given)
	KindAlpha              // letters only
	KindBool               // boolean literal
	KindEmail              // minimal address shape: local@domain with a dotted domain
	KindURI                // absolute URI, any scheme
	KindURL                // absolute http/https URL with a host
	KindURN                // urn: URI with opaque content
	KindTime               // clock value, invariant grammar
	KindDate               // calendar date, invariant grammar
	KindDateTime           // date + time, offset optional
	KindDateTimeOffset     // date + time with an explicit offset
	KindTimeSpan           // duration (colon, ISO-8601, or compact unit grammar)
	KindGUID               // UUID text forms
	KindLong               // 64-bit integer literal
	KindInt                // 32-bit integer literal
	KindCustom             // caller-registered predicate
)

// String returns the canonical constraint name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindAlpha:
		return "alpha"
	case KindBool:
		return "bool"
	case KindEmail:
		return "email"
	case KindURI:
		return "uri"
	case KindURL:
		return "url"
	case KindURN:
		return "urn"
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindDateTimeOffset:
		return "datetimeoffset"
	case KindTimeSpan:
		return "timespan"
	case KindGUID:
		return "guid"
	case KindLong:
		return "long"
	case KindInt:
		return "int"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// kindNames maps recognized constraint names, including documented synonyms,
// to their kind. Lookup is case-insensitive via KindOf.
var kindNames = map[string]Kind{
	"string":           KindString,
	"alpha":            KindAlpha,
	"bool":             KindBool,
	"email":            KindEmail,
	"uri":              KindURI,
	"url":              KindURL,
	"urn":              KindURN,
	"time":             KindTime,
	"time-only":        KindTime,
	"date":             KindDate,
	"date-only":        KindDate,
	"datetime":         KindDateTime,
	"date-time":        KindDateTime,
	"datetimeoffset":   KindDateTimeOffset,
	"date-time-offset": KindDateTimeOffset,
	"timespan":         KindTimeSpan,
	"time-span":        KindTimeSpan,
	"guid":             KindGUID,
	"long":             KindLong,
	"int":              KindInt,
}

// KindOf resolves a constraint name to its built-in kind.
// Names are matched case-insensitively and include the documented synonyms
// (time-only, date-only, date-time, date-time-offset, time-span).
// The second return value is false for names that are not built-in.
func KindOf(name string) (Kind, bool) {
	k, ok := kindNames[strings.ToLower(name)]
	return k, ok
}

// Predicate is a caller-supplied constraint: it reports whether the raw
// token satisfies the constraint. Predicates must be pure and safe for
// concurrent use.
type Predicate func(token string) bool

// Constraints is a registry of named custom constraint predicates.
// Names are case-insensitive and must not collide with built-in kinds.
//
// A registry is populated during configuration and read-only afterwards;
// Evaluate may consult it from any number of goroutines.
//
// Example:
//
//	c := route.NewConstraints()
//	c.Register("even", func(token string) bool {
//	    n, ok := route.ParseInt64(token)
//	    return ok && n%2 == 0
//	})
type Constraints struct {
	preds map[string]Predicate
}

// NewConstraints returns an empty custom constraint registry.
func NewConstraints() *Constraints {
	return &Constraints{preds: make(map[string]Predicate)}
}

// Register adds a named custom predicate to the registry.
// It fails when the name is empty, the predicate is nil, the name collides
// with a built-in constraint kind, or the name is already registered.
func (c *Constraints) Register(name string, fn Predicate) error {
	if name == "" {
		return ErrEmptyConstraintName
	}
	if fn == nil {
		return ErrNilPredicate
	}
	key := strings.ToLower(name)
	if _, builtin := kindNames[key]; builtin {
		return ErrReservedConstraint
	}
	if _, exists := c.preds[key]; exists {
		return ErrDuplicateConstraint
	}
	c.preds[key] = fn
	return nil
}

// Has reports whether a custom constraint with the given name is registered.
// A nil registry has no constraints.
func (c *Constraints) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.preds[strings.ToLower(name)]
	return ok
}

// Names returns the registered custom constraint names, sorted.
func (c *Constraints) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.preds))
	for name := range c.preds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// evaluate runs the named predicate against the token.
// An unregistered name never matches.
func (c *Constraints) evaluate(name, token string) bool {
	if c == nil {
		return false
	}
	fn, ok := c.preds[strings.ToLower(name)]
	if !ok {
		return false
	}
	return fn(token)
}

// Evaluate reports whether a token satisfies the segment's constraint.
//
// For literal segments the check is case-insensitive equality with the
// registered value. For dynamic segments the segment's kind decides; custom
// kinds consult the supplied registry, and an unregistered custom name
// never matches. Evaluate is pure: it performs no I/O and reads no clocks.
func Evaluate(seg Segment, token string, custom *Constraints) bool {
	if !seg.Dynamic {
		return strings.EqualFold(seg.Value, token)
	}

	switch seg.Kind {
	case KindString:
		return true
	case KindAlpha:
		return isAlpha(token)
	case KindBool:
		_, err := strconv.ParseBool(token)
		return err == nil
	case KindEmail:
		return isEmail(token)
	case KindURI:
		return isURI(token)
	case KindURL:
		return isURL(token)
	case KindURN:
		return isURN(token)
	case KindTime:
		return isTime(token)
	case KindDate:
		return isDate(token)
	case KindDateTime:
		return isDateTime(token)
	case KindDateTimeOffset:
		return isDateTimeOffset(token)
	case KindTimeSpan:
		_, ok := ParseTimeSpan(token)
		return ok
	case KindGUID:
		_, err := uuid.Parse(token)
		return err == nil
	case KindLong:
		_, ok := ParseInt64(token)
		return ok
	case KindInt:
		_, ok := ParseInt32(token)
		return ok
	case KindCustom:
		return custom.evaluate(seg.Constraint, token)
	default:
		return false
	}
}

// isAlpha reports whether the token is non-empty and entirely letters.
func isAlpha(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isEmail applies the minimal address shape: a non-empty local part, a
// single @, and a domain containing a dot.
func isEmail(token string) bool {
	at := strings.IndexByte(token, '@')
	if at <= 0 || at != strings.LastIndexByte(token, '@') {
		return false
	}
	domain := token[at+1:]
	return domain != "" && strings.Contains(domain, ".")
}

// isURI reports whether the token is an absolute URI of any scheme.
func isURI(token string) bool {
	u, err := url.Parse(token)
	return err == nil && u.IsAbs()
}

// isURL reports whether the token is an absolute http or https URL with a
// non-empty host.
func isURL(token string) bool {
	u, err := url.Parse(token)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isURN reports whether the token is a urn: URI with content after the prefix.
func isURN(token string) bool {
	u, err := url.Parse(token)
	return err == nil && u.Scheme == "urn" && u.Opaque != ""
}

// Invariant layouts for calendar and clock constraints. Fractions are
// optional; offsets use Z or ±hh:mm.
var (
	timeLayouts = []string{
		"15:04:05.999999999",
		"15:04",
	}
	dateTimeLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04",
	}
	dateTimeOffsetLayouts = []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04Z07:00",
	}
)

func isDate(token string) bool {
	_, err := time.Parse("2006-01-02", token)
	return err == nil
}

func isTime(token string) bool {
	return parseAny(token, timeLayouts)
}

// isDateTime accepts a date-time with or without an explicit offset.
func isDateTime(token string) bool {
	return parseAny(token, dateTimeLayouts) || parseAny(token, dateTimeOffsetLayouts)
}

// isDateTimeOffset requires the offset to be explicit (Z or ±hh:mm).
func isDateTimeOffset(token string) bool {
	return parseAny(token, dateTimeOffsetLayouts)
}

func parseAny(token string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, token); err == nil {
			return true
		}
	}
	return false
}
