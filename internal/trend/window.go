package trend

import (
	"slices"
	"time"

	"booktrend/internal/facet"
)

const dateLayout = "2006-01-02"

// Window is an inclusive range of calendar dates. Start is never after End.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) StartDt() string { return w.Start.Format(dateLayout) }
func (w Window) EndDt() string   { return w.End.Format(dateLayout) }

// date drops the time of day, keeping t's location.
func date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// PeriodToNow is [today-(days+1), today-1]. Today is never included since
// its statistics are not published.
func PeriodToNow(today time.Time, days int) Window {
	today = date(today)
	return Window{
		Start: today.AddDate(0, 0, -(days + 1)),
		End:   today.AddDate(0, 0, -1),
	}
}

// ThisWeek is Monday of the current week through yesterday. When today is
// one of the unpublished weekdays, or the current week has no published day
// yet, it is the whole previous Monday to Sunday week instead.
func ThisWeek(today time.Time, unpublished []time.Weekday) Window {
	today = date(today)
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	yesterday := today.AddDate(0, 0, -1)

	if slices.Contains(unpublished, today.Weekday()) || yesterday.Before(monday) {
		return Window{
			Start: monday.AddDate(0, 0, -7),
			End:   monday.AddDate(0, 0, -1),
		}
	}
	return Window{Start: monday, End: yesterday}
}

// Relative is the loan-trend window for weekMonth: the last seven days or
// the last month, both ending today.
func Relative(today time.Time, p facet.Period) Window {
	today = date(today)
	if p == facet.PeriodMonth {
		return Window{Start: monthBefore(today), End: today}
	}
	return Window{Start: today.AddDate(0, 0, -7), End: today}
}

// monthBefore steps back one calendar month, clamping to the last day of the
// shorter month (03-31 becomes 02-29 or 02-28).
func monthBefore(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), last)-1)
}

// FromRange adopts a validated caller range.
func FromRange(r facet.DateRange) Window {
	return Window{Start: date(r.Start), End: date(r.End)}
}
