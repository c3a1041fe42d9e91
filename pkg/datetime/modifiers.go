package datetime

import (
	"fmt"
	"strconv"
	"strings"
)

// ModifierKind tags a parsed modifier string, mirroring the grammar in
// spec.md §4.8 ("Modifier grammar").
type ModifierKind int

const (
	ModJDNOffset ModifierKind = iota
	ModCeiling
	ModFloor
	ModStartOfMonth
	ModStartOfYear
	ModStartOfDay
	ModWeekday
	ModUnixEpoch
	ModJulianDay
	ModAuto
	ModLocaltime
	ModUtc
	ModSubsecond
)

// Modifier is the parsed form of one modifier string in a DATE/TIME/
// DATETIME/JULIANDAY/UNIXEPOCH call.
type Modifier struct {
	Kind    ModifierKind
	Offset  JulianDay // valid when Kind == ModJDNOffset
	Weekday int64     // valid when Kind == ModWeekday
}

// ParseModifier parses a single modifier string per the SQLite date/time
// function modifier grammar (spec.md §4.8). Unknown modifiers error with
// the original modifier text.
func ParseModifier(modifier string) (Modifier, error) {
	if value, ok := strings.CutPrefix(modifier, "weekday "); ok {
		value = strings.TrimSpace(value)
		if value == "" {
			return Modifier{}, fmt.Errorf("weekday modifier requires a numeric argument")
		}
		weekday, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Modifier{}, fmt.Errorf("invalid weekday value: '%s'", value)
		}
		if weekday < 0 || weekday > 6 {
			return Modifier{}, fmt.Errorf("weekday modifier accepts values between 0 and 6")
		}
		return Modifier{Kind: ModWeekday, Weekday: weekday}, nil
	}

	switch modifier {
	case "ceiling":
		return Modifier{Kind: ModCeiling}, nil
	case "floor":
		return Modifier{Kind: ModFloor}, nil
	case "start of month":
		return Modifier{Kind: ModStartOfMonth}, nil
	case "start of year":
		return Modifier{Kind: ModStartOfYear}, nil
	case "start of day":
		return Modifier{Kind: ModStartOfDay}, nil
	case "unixepoch":
		return Modifier{Kind: ModUnixEpoch}, nil
	case "julianday":
		return Modifier{Kind: ModJulianDay}, nil
	case "auto":
		return Modifier{Kind: ModAuto}, nil
	case "localtime":
		return Modifier{Kind: ModLocaltime}, nil
	case "utc":
		return Modifier{Kind: ModUtc}, nil
	case "subsec", "subsecond":
		return Modifier{Kind: ModSubsecond}, nil
	}

	original := modifier
	hasSign := strings.HasPrefix(modifier, "+") || strings.HasPrefix(modifier, "-")
	sign := 1.0
	if strings.HasPrefix(modifier, "-") {
		sign = -1.0
	}
	modifier = strings.TrimLeft(modifier, "+-")

	word, rest, found := strings.Cut(modifier, " ")
	if !found {
		word, rest = modifier, ""
	}

	switch rest {
	case "days":
		days, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return Modifier{}, fmt.Errorf("invalid days value: '%s'", word)
		}
		return jdnOffset(RelativeFromComponents(0, 0, days*sign, 0, 0, 0, 0)), nil
	case "hours":
		hours, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return Modifier{}, fmt.Errorf("invalid hours value: '%s'", word)
		}
		return jdnOffset(RelativeFromComponents(0, 0, 0, hours*sign, 0, 0, 0)), nil
	case "minutes":
		minutes, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return Modifier{}, fmt.Errorf("invalid minutes value: '%s'", word)
		}
		return jdnOffset(RelativeFromComponents(0, 0, 0, 0, minutes*sign, 0, 0)), nil
	case "seconds":
		seconds, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return Modifier{}, fmt.Errorf("invalid seconds value: '%s'", word)
		}
		return jdnOffset(RelativeFromComponents(0, 0, 0, 0, 0, seconds*sign, 0)), nil
	case "months":
		months, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return Modifier{}, fmt.Errorf("invalid months value: '%s'", word)
		}
		return jdnOffset(RelativeFromComponents(0, months*sign, 0, 0, 0, 0, 0)), nil
	case "years":
		years, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return Modifier{}, fmt.Errorf("invalid years value: '%s'", word)
		}
		return jdnOffset(RelativeFromComponents(years*sign, 0, 0, 0, 0, 0, 0)), nil
	case "":
		if strings.Contains(word, "-") {
			if !hasSign {
				return Modifier{}, fmt.Errorf("invalid modifier: '%s'", original)
			}
			date, err := parseDate(word, sign)
			if err != nil {
				return Modifier{}, err
			}
			return jdnOffset(date), nil
		}
		tm, err := parseTime(word, sign)
		if err != nil {
			return Modifier{}, err
		}
		return jdnOffset(tm), nil
	default:
		if !hasSign {
			return Modifier{}, fmt.Errorf("invalid modifier: '%s'", original)
		}
		date, err := parseDate(word, sign)
		if err != nil {
			return Modifier{}, err
		}
		tm, err := parseTime(rest, sign)
		if err != nil {
			return Modifier{}, err
		}
		return jdnOffset(New(date.Value() + tm.Value())), nil
	}
}

func jdnOffset(j JulianDay) Modifier {
	return Modifier{Kind: ModJDNOffset, Offset: j}
}

// IsLeapYear implements spec.md §4.8's leap-year rule.
func IsLeapYear(year int64) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func parseDate(date string, sign float64) (JulianDay, error) {
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return JulianDay{}, fmt.Errorf("invalid date: '%s'.", date)
	}
	day, err := strconv.ParseInt(date[8:10], 10, 64)
	if err != nil {
		return JulianDay{}, fmt.Errorf("invalid day: '%s'", date[8:10])
	}
	year, err := strconv.ParseInt(date[0:4], 10, 64)
	if err != nil {
		return JulianDay{}, fmt.Errorf("invalid year: '%s'", date[0:4])
	}
	month, err := strconv.ParseInt(date[5:7], 10, 64)
	if err != nil {
		return JulianDay{}, fmt.Errorf("invalid month: '%s'", date[5:7])
	}

	if month != 0 && (month < 1 || month > 12) {
		return JulianDay{}, fmt.Errorf("invalid date: '%s'.", date)
	}

	if month != 0 && day != 0 {
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
			return JulianDay{}, fmt.Errorf("invalid date: '%s'.", date)
		}
	}

	return RelativeFromComponents(float64(year)*sign, float64(month), float64(day), 0, 0, 0, 0), nil
}

func parseInRange(s, name string, min, max int64) (int64, error) {
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: '%s'", name, s)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s out of range (%d-%d): %d", name, min, max, value)
	}
	return value, nil
}

func parseTime(t string, sign float64) (JulianDay, error) {
	if t == "" {
		return JulianDay{}, fmt.Errorf("invalid time: '%s'.", t)
	}

	parts := strings.Split(t, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return JulianDay{}, fmt.Errorf("invalid time: '%s'.", t)
	}

	hour, err := parseInRange(parts[0], "hour", 0, 23)
	if err != nil {
		return JulianDay{}, err
	}
	minute, err := parseInRange(parts[1], "minute", 0, 59)
	if err != nil {
		return JulianDay{}, err
	}

	var second int64
	var subsecond float64
	if len(parts) == 3 {
		secondPart := parts[2]
		if dot := strings.IndexByte(secondPart, '.'); dot >= 0 {
			if len(secondPart[dot+1:]) > 3 {
				return JulianDay{}, fmt.Errorf("invalid time: '%s'.", t)
			}
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

	return RelativeFromComponents(0, 0, 0,
		float64(hour)*sign, float64(minute)*sign, float64(second)*sign, subsecond*sign), nil
}
