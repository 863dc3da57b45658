package savefile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Days per month on the game calendar. Years are 365 days, there are no
// leap days.
var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Date is a date on the game calendar. The zero value is not a valid
// date.
type Date struct {
	Year  int16
	Month uint8
	Day   uint8
}

// String formats the date the way save files spell it, y.m.d.
func (d Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day)
}

// Before reports whether d precedes other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// AddYears returns the date n years later, or earlier for negative n,
// clamped to the representable year range.
func (d Date) AddYears(n int) Date {
	y := int(d.Year) + n
	if y > math.MaxInt16 {
		y = math.MaxInt16
	}
	if y < math.MinInt16 {
		y = math.MinInt16
	}
	d.Year = int16(y)
	return d
}

// ParseDate parses y.m.d text. It reports false when the text is not a
// well-formed date on the game calendar.
func ParseDate(s string) (Date, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Date{}, false
	}
	year, err := strconv.ParseInt(parts[0], 10, 16)
	if err != nil {
		return Date{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, false
	}
	return makeDate(int(year), month, day)
}

func makeDate(year, month, day int) (Date, bool) {
	if month < 1 || month > 12 {
		return Date{}, false
	}
	if day < 1 || day > monthDays[month-1] {
		return Date{}, false
	}
	return Date{Year: int16(year), Month: uint8(month), Day: uint8(day)}, true
}

// DateFromBinary decodes the binary date representation, a count of hours
// since the first day of year -5000 on the game calendar.
func DateFromBinary(hours int64) (Date, bool) {
	if hours < 0 {
		return Date{}, false
	}
	days := hours / 24
	year := days/365 - 5000
	if year > math.MaxInt16 {
		return Date{}, false
	}
	rem := int(days % 365)
	month := 1
	for rem >= monthDays[month-1] {
		rem -= monthDays[month-1]
		month++
	}
	return Date{Year: int16(year), Month: uint8(month), Day: uint8(rem + 1)}, true
}
