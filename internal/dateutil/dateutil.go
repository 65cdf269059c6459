// Package dateutil provides receipt timestamp formatting utilities.
package dateutil

import (
	"strconv"
	"time"
)

// receiptClockFormat is the Go layout for the non-ordinal part of the
// receipt timestamp: "January 2006, 03:04PM".
const receiptClockFormat = "January 2006, 03:04PM"

// OrdinalSuffix returns the English ordinal suffix for a day of month.
func OrdinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}

// FormatReceipt renders a timestamp the way it appears on receipts,
// e.g. "2nd January 2006, 03:04PM". The day carries no leading zero.
// The time is formatted in its own location; callers convert to the
// display zone first.
func FormatReceipt(t time.Time) string {
	day := t.Day()
	return strconv.Itoa(day) + OrdinalSuffix(day) + " " + t.Format(receiptClockFormat)
}
