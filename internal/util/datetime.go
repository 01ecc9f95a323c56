package util

import "time"

const (
	timeLayout     = "15:04"
	monthDayLayout = "01/02(Mon)"
	fullDateLayout = "2006/01/02(Mon)"
	todayLabel     = "Today"
	yesterdayLabel = "Yesterday"
)

// FormatListDate splits t into the date and time labels of a note listing.
// Dates read "Today", "Yesterday", "01/02(Mon)" within the current year and
// "2006/01/02(Mon)" otherwise. Both t and now are shown in now's location.
func FormatListDate(t, now time.Time) (date, clock string) {
	t = t.In(now.Location())
	clock = t.Format(timeLayout)

	day := startOfDay(t)
	today := startOfDay(now)
	switch {
	case day.Equal(today):
		return todayLabel, clock
	case day.Equal(today.AddDate(0, 0, -1)):
		return yesterdayLabel, clock
	case t.Year() == now.Year():
		return t.Format(monthDayLayout), clock
	}
	return t.Format(fullDateLayout), clock
}
