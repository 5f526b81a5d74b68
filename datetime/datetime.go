// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package datetime implements the DateTime scalar: a single canonical
// instant normalized from the assorted representations that reach the
// server. Stored records predating the current format keep human-entered
// strings like "3-28-1977"; those must still round-trip losslessly into the
// canonical ISO 8601 form.
package datetime

import (
	"strconv"
	"time"

	"golang.org/x/xerrors"
)

// Layout is the canonical serialization form: ISO 8601 with milliseconds
// and a timezone designator, always rendered in UTC.
const Layout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalid is wrapped by errors returned for input that cannot be
// interpreted as a point in time.
var ErrInvalid = xerrors.New("invalid timestamp")

// parseLayouts are the accepted string forms, tried in order. Date-only
// forms default the time of day to midnight UTC. "1-2-2006" covers legacy
// month-day-year records; the layout also matches zero-padded digits.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1-2-2006",
}

// A DateTime is a canonical instant. The zero value is the zero time.
type DateTime struct {
	t time.Time
}

// Parse normalizes a string representation into a DateTime. It accepts full
// ISO 8601 timestamps, date-only strings, legacy month-day-year strings,
// and integer epoch values (seconds, or milliseconds for magnitudes that
// cannot be seconds).
func Parse(s string) (DateTime, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(n), nil
	}
	return DateTime{}, xerrors.Errorf("parse datetime %q: %w", s, ErrInvalid)
}

// FromAny normalizes any supported representation: a time.Time, a numeric
// epoch value, or a string as accepted by Parse.
func FromAny(v interface{}) (DateTime, error) {
	switch v := v.(type) {
	case DateTime:
		return v, nil
	case time.Time:
		return FromTime(v), nil
	case int:
		return fromEpoch(int64(v)), nil
	case int64:
		return fromEpoch(v), nil
	case float64:
		return fromEpoch(int64(v)), nil
	case string:
		return Parse(v)
	default:
		return DateTime{}, xerrors.Errorf("normalize datetime from %T: %w", v, ErrInvalid)
	}
}

// FromTime normalizes a time.Time into a DateTime.
func FromTime(t time.Time) DateTime {
	return DateTime{t: t.UTC()}
}

// Now returns the current instant.
func Now() DateTime {
	return FromTime(time.Now())
}

const millisThreshold = 1e12 // epoch seconds stay far below this until year 33658

func fromEpoch(n int64) DateTime {
	if n >= millisThreshold || n <= -millisThreshold {
		return FromTime(time.Unix(n/1000, (n%1000)*int64(time.Millisecond)))
	}
	return FromTime(time.Unix(n, 0))
}

// Time returns the instant as a time.Time in UTC.
func (dt DateTime) Time() time.Time {
	return dt.t
}

// IsZero reports whether dt is the zero instant.
func (dt DateTime) IsZero() bool {
	return dt.t.IsZero()
}

// After reports whether dt is strictly later than other.
func (dt DateTime) After(other DateTime) bool {
	return dt.t.After(other.t)
}

// Equal reports whether dt and other represent the same instant.
func (dt DateTime) Equal(other DateTime) bool {
	return dt.t.Equal(other.t)
}

// String returns the canonical serialization.
func (dt DateTime) String() string {
	return dt.t.UTC().Format(Layout)
}

// MarshalText serializes the canonical form. This is the single path by
// which a DateTime crosses any boundary, so every response and stored
// record carries the same textual shape.
func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText normalizes any form accepted by Parse.
func (dt *DateTime) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
