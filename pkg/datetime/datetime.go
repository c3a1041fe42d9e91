package datetime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FromText parses the first argument to DATE/TIME/DATETIME/JULIANDAY/
// UNIXEPOCH: the literal 'now', or an ISO-like "YYYY-MM-DD[ HH:MM[:SS[.mmm]]]"
// string (spec.md §4.8).
func FromText(s string) (JulianDay, error) {
	if s == "now" {
		return Now(), nil
	}

	datePart := s
	timePart := ""
	if sp := strings.IndexByte(s, ' '); sp >= 0 {
		datePart, timePart = s[:sp], s[sp+1:]
	}

	if len(datePart) != 10 || datePart[4] != '-' || datePart[7] != '-' {
		return JulianDay{}, fmt.Errorf("invalid date: '%s'.", s)
	}
	year, err := strconv.ParseInt(datePart[0:4], 10, 64)
	if err != nil {
		return JulianDay{}, fmt.Errorf("invalid year: '%s'", datePart[0:4])
	}
	month, err := strconv.ParseInt(datePart[5:7], 10, 64)
	if err != nil {
		return JulianDay{}, fmt.Errorf("invalid month: '%s'", datePart[5:7])
	}
	day, err := strconv.ParseInt(datePart[8:10], 10, 64)
	if err != nil {
		return JulianDay{}, fmt.Errorf("invalid day: '%s'", datePart[8:10])
	}
	if month < 1 || month > 12 {
		return JulianDay{}, fmt.Errorf("invalid date: '%s'.", s)
	}
	var maxDays int64
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		maxDays = 31
	case 4, 6, 9, 11:
		maxDays = 30
	case 2:
		if IsLeapYear(year) {
			maxDays = 29
		} else {
			maxDays = 28
		}
	}
	if day < 1 || day > maxDays {
		return JulianDay{}, fmt.Errorf("invalid date: '%s'.", s)
	}

	hour, minute, second, subsecond := int64(0), int64(0), int64(0), 0.0
	isSubsecond := false
	if timePart != "" {
		parts := strings.Split(timePart, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return JulianDay{}, fmt.Errorf("invalid time: '%s'.", timePart)
		}
		hour, err = parseInRange(parts[0], "hour", 0, 23)
		if err != nil {
			return JulianDay{}, err
		}
		minute, err = parseInRange(parts[1], "minute", 0, 59)
		if err != nil {
			return JulianDay{}, err
		}
		if len(parts) == 3 {
			secondPart := parts[2]
			if dot := strings.IndexByte(secondPart, '.'); dot >= 0 {
				isSubsecond = true
				second, err = parseInRange(secondPart[:dot], "second", 0, 59)
				if err != nil {
					return JulianDay{}, err
				}
				ms, err := parseInRange(secondPart[dot+1:], "subsecond", 0, 999)
				if err != nil {
					return JulianDay{}, err
				}
				subsecond = float64(ms) / 1000.0
			} else {
				second, err = parseInRange(secondPart, "second", 0, 59)
				if err != nil {
					return JulianDay{}, err
				}
			}
		}
	}

	jd := FromComponents(float64(year), float64(month), float64(day),
		float64(hour), float64(minute), float64(second), subsecond)
	return jd.WithSubsecond(isSubsecond), nil
}

// Apply runs the modifier grammar (spec.md §4.8) against base left to
// right, returning the transformed JulianDay.
func Apply(base JulianDay, modifiers []string) (JulianDay, error) {
	result := base
	for _, raw := range modifiers {
		mod, err := ParseModifier(raw)
		if err != nil {
			return JulianDay{}, err
		}
		switch mod.Kind {
		case ModJDNOffset:
			// Month and year offsets move the calendar fields, keeping the
			// day of month and time of day, rather than adding a day count.
			if word, unit, _ := strings.Cut(strings.TrimLeft(raw, "+-"), " "); unit == "months" || unit == "years" {
				n, _ := strconv.ParseFloat(word, 64)
				if strings.HasPrefix(raw, "-") {
					n = -n
				}
				if unit == "years" {
					n *= 12
				}
				y, m, d := civil(result)
				total := y*12 + m - 1 + int64(n)
				timeOfDay := result.Value() - startOfDay(result).Value()
				result = New(FromComponents(float64(total/12), float64(total%12+1), float64(d), 0, 0, 0, 0).Value() + timeOfDay).WithSubsecond(result.isSubsecond)
				continue
			}
			result = New(result.Value() + mod.Offset.Value()).WithSubsecond(result.isSubsecond)
		case ModStartOfDay:
			result = startOfDay(result)
		case ModStartOfMonth:
			result = startOfMonth(result)
		case ModStartOfYear:
			result = startOfYear(result)
		case ModWeekday:
			result = advanceToWeekday(result, mod.Weekday)
		case ModUnixEpoch:
			result = New(result.Value()/86400.0 + unixEpochJulianDay).WithSubsecond(result.isSubsecond)
		case ModJulianDay:
			// value is already interpreted as a julian day number; no-op.
		case ModSubsecond:
			result = result.WithSubsecond(true)
		case ModLocaltime:
			result = toLocal(result)
		case ModUtc:
			// no-op: engine values are already in UTC.
		case ModCeiling, ModFloor, ModAuto:
			// Rounding-mode flags are accepted and have no effect: AsDate
			// and AsTime truncate to whole days and seconds (milliseconds
			// are rounded when the subsecond flag is set).
		default:
			return JulianDay{}, fmt.Errorf("unknown modifier: '%s'", raw)
		}
	}
	return result, nil
}

func civil(j JulianDay) (year, month, day int64) {
	date := j.AsDate()
	y, _ := strconv.ParseInt(date[0:4], 10, 64)
	m, _ := strconv.ParseInt(date[5:7], 10, 64)
	d, _ := strconv.ParseInt(date[8:10], 10, 64)
	return y, m, d
}

func startOfDay(j JulianDay) JulianDay {
	y, m, d := civil(j)
	return FromComponents(float64(y), float64(m), float64(d), 0, 0, 0, 0).WithSubsecond(j.isSubsecond)
}

func startOfMonth(j JulianDay) JulianDay {
	y, m, _ := civil(j)
	return FromComponents(float64(y), float64(m), 1, 0, 0, 0, 0).WithSubsecond(j.isSubsecond)
}

func startOfYear(j JulianDay) JulianDay {
	y, _, _ := civil(j)
	return FromComponents(float64(y), 1, 1, 0, 0, 0, 0).WithSubsecond(j.isSubsecond)
}

// advanceToWeekday advances to the next occurrence of weekday `target`
// (Sunday=0); 0 days are added if `j` already falls on that weekday.
// Julian Day 0 (noon UT 24 Nov 4714 BC proleptic Gregorian) falls on a
// Monday, so (jdInt+1) % 7 gives the Sunday=0 convention spec.md uses.
func advanceToWeekday(j JulianDay, target int64) JulianDay {
	jdInt := int64(math.Floor(j.jdn + julianDayNoonOffset))
	current := ((jdInt+1)%7 + 7) % 7
	delta := ((target-current)%7 + 7) % 7
	return New(j.jdn + float64(delta)).WithSubsecond(j.isSubsecond)
}

func toLocal(j JulianDay) JulianDay {
	utcSeconds := j.AsUnixEpoch()
	var t time.Time
	if j.isSubsecond {
		t = time.UnixMilli(int64(utcSeconds)).In(time.Local)
	} else {
		t = time.Unix(int64(utcSeconds), 0).In(time.Local)
	}
	return FromComponents(
		float64(t.Year()), float64(t.Month()), float64(t.Day()),
		float64(t.Hour()), float64(t.Minute()), float64(t.Second()),
		float64(t.Nanosecond())/1e9,
	).WithSubsecond(j.isSubsecond)
}
