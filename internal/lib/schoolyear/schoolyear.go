// Package schoolyear contains date arithmetic for the academic-year
// subscription window. A subscription always ends on July 31: purchases made
// in August or September belong to the upcoming school year and expire on
// July 31 of the next calendar year, everything else expires on July 31 of
// the current one.
package schoolyear

import "time"

// EndDate returns the subscription end date for a purchase made on the
// given date.
func EndDate(purchase time.Time) time.Time {
	year := purchase.Year()
	if purchase.Month() >= time.August {
		year++
	}
	return time.Date(year, time.July, 31, 0, 0, 0, 0, purchase.Location())
}

// DaysRemaining returns the number of whole days between today and the end
// date, floored at zero.
func DaysRemaining(endDate, today time.Time) int {
	days := int(endDate.Sub(truncateToDay(today)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// MonthsRemaining approximates the remaining months as days/30, rounded.
func MonthsRemaining(endDate, today time.Time) int {
	return int(float64(DaysRemaining(endDate, today))/30 + 0.5)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
