// Package datetime implements the Julian Day value and the SQLite-style
// date/time modifier grammar the evaluator's scalar functions depend on.
package datetime

import (
	"fmt"
	"math"
	"time"
)

const (
	julianDayNoonOffset = 0.5
	unixEpochJulianDay  = 2440587.5
	julianDayEpochOffset = 32045
	yearOffset           = 4800
)

// JulianDay is a continuous day count since the Julian epoch, optionally
// carrying subsecond resolution for formatting purposes.
type JulianDay struct {
	jdn         float64
	isSubsecond bool
}

func New(jdn float64) JulianDay { return JulianDay{jdn: jdn} }

func (j JulianDay) Value() float64     { return j.jdn }
func (j JulianDay) IsSubsecond() bool  { return j.isSubsecond }
func (j JulianDay) WithSubsecond(v bool) JulianDay {
	j.isSubsecond = v
	return j
}

// FromComponents implements the standard civil-to-JDN formula from
// spec.md §4.8. Year/month/day/hour/minute/second/subsecond may all be
// fractional or negative; a zero year is treated as Julian year 0.
func FromComponents(year, month, day, hour, minute, second, subsecond float64) JulianDay {
	totalSeconds := hour*3600.0 + minute*60.0 + second + subsecond
	timeFraction := totalSeconds / 86400.0

	yearInt := int64(math.Floor(year))
	monthInt := int64(math.Floor(month))
	dayInt := int64(math.Floor(day))
	dayFraction := day - math.Floor(day)

	a := (14 - monthInt) / 12
	y := yearInt + yearOffset - a
	m := monthInt + 12*a - 3

	jdnInt := dayInt + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - julianDayEpochOffset

	jdn := float64(jdnInt) + dayFraction + timeFraction - julianDayNoonOffset
	return JulianDay{jdn: jdn}
}

// RelativeFromComponents is FromComponents shifted so that year/month/day
// all zero maps to 0.0 — the Offset ParseModifier reports for "N
// days/months/years" modifiers. Apply adds that offset for day and time
// units; month and year modifiers are applied to the calendar fields instead.
func RelativeFromComponents(year, month, day, hour, minute, second, subsecond float64) JulianDay {
	jdn := FromComponents(year, month, day, hour, minute, second, subsecond).Value()
	zero := FromComponents(0, 0, 0, 0, 0, 0, 0).Value()
	return JulianDay{jdn: jdn - zero}
}

// Now returns the current instant as a JulianDay, used by 'now'.
func Now() JulianDay {
	t := time.Now().UTC()
	return FromComponents(
		float64(t.Year()), float64(t.Month()), float64(t.Day()),
		float64(t.Hour()), float64(t.Minute()), float64(t.Second()),
		float64(t.Nanosecond())/1e9,
	)
}

// AsDate renders YYYY-MM-DD via the inverse Julian Day formula.
func (j JulianDay) AsDate() string {
	jdInt := int64(math.Floor(j.jdn + julianDayNoonOffset))

	a := jdInt + 1401 + ((4*jdInt+274277)/146097)*3/4 - 38
	b := (4*a + 3) % 1461
	c := b / 4

	day := (5*c+2)%153/5 + 1
	month := (5*c+2)/153 + 2
	month = month%12 + 1
	year := (4*a+3)/1461 - 4716 + (12+2-month)/12

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// AsTime renders HH:MM:SS, or HH:MM:SS.mmm when the subsecond flag is set.
func (j JulianDay) AsTime() string {
	jdValue := j.jdn + julianDayNoonOffset
	jdInt := int64(math.Floor(jdValue))
	jdFractional := jdValue - float64(jdInt)
	totalSeconds := jdFractional * 86400.0
	hour := int64(math.Floor(totalSeconds / 3600.0))
	minute := int64(math.Floor(math.Mod(totalSeconds, 3600.0) / 60.0))
	secondWithFraction := math.Mod(math.Mod(totalSeconds, 3600.0), 60.0)
	second := int64(math.Floor(secondWithFraction))

	if j.isSubsecond {
		fractional := secondWithFraction - float64(second)
		milliseconds := int64(math.Round(fractional * 1000.0))
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hour, minute, second, milliseconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
}

// AsDateTime renders "<date> <time>".
func (j JulianDay) AsDateTime() string {
	return j.AsDate() + " " + j.AsTime()
}

// AsUnixEpoch returns seconds (or milliseconds if subsecond) since
// 1970-01-01.
func (j JulianDay) AsUnixEpoch() float64 {
	if j.isSubsecond {
		return (j.jdn - unixEpochJulianDay) * 86400000.0
	}
	return (j.jdn - unixEpochJulianDay) * 86400.0
}
