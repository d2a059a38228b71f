// Package dostime decodes the packed MS-DOS date/time pair ZIP headers
// carry modification timestamps in.
package dostime

import (
	"fmt"
	"time"

	"github.com/zeebo/errs/v2"
)

// ErrBadDate is returned when a DOS date/time pair decodes to an
// out-of-range calendar value (month 0, day 0, and so on).
var ErrBadDate = errs.Errorf("dos date/time out of range")

// Decode converts a packed DOS date and time pair into a local time.Time.
// It is total over the full uint16 x uint16 input space: any combination
// either yields a valid time or ErrBadDate, never a panic.
func Decode(dosDate, dosTime uint16) (time.Time, error) {
	sec := int((dosTime & 0x1f) * 2)
	min := int((dosTime >> 5) & 0x3f)
	hour := int(dosTime >> 11)

	day := int(dosDate & 0x1f)
	month := int((dosDate >> 5) & 0xf)
	year := int(dosDate>>9) + 1980

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrBadDate, month)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("%w: day %d", ErrBadDate, day)
	}
	if hour > 23 {
		return time.Time{}, fmt.Errorf("%w: hour %d", ErrBadDate, hour)
	}
	if min > 59 {
		return time.Time{}, fmt.Errorf("%w: minute %d", ErrBadDate, min)
	}
	if sec > 59 {
		return time.Time{}, fmt.Errorf("%w: second %d", ErrBadDate, sec)
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local), nil
}

// Encode packs a time.Time into the DOS date/time representation with its
// 2-second resolution, the inverse of Decode. It is used by tests to
// round-trip fixtures.
func Encode(t time.Time) (dosDate, dosTime uint16) {
	year := uint16(t.Year() - 1980)
	month := uint16(t.Month())
	day := uint16(t.Day())
	hour := uint16(t.Hour())
	min := uint16(t.Minute())
	sec := uint16(t.Second() / 2)

	dosDate = year<<9 | month<<5 | day
	dosTime = hour<<11 | min<<5 | sec
	return dosDate, dosTime
}

func daysIn(month time.Month, year int) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
