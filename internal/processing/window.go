package processing

import "time"

// WindowDays is the width of the trailing selection window.
const WindowDays = 5

const dateLayout = "2006-01-02"

// DateWindow is an inclusive range of calendar days ending today (UTC).
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// NewDateWindow computes the window for the given instant. Both bounds are
// truncated to midnight UTC so End-Start is always exactly WindowDays days.
func NewDateWindow(now time.Time) DateWindow {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return DateWindow{
		Start: end.AddDate(0, 0, -WindowDays),
		End:   end,
	}
}

// StartDate returns the first day of the window as YYYY-MM-DD.
func (w DateWindow) StartDate() string {
	return w.Start.Format(dateLayout)
}

// EndDate returns the last day of the window as YYYY-MM-DD.
func (w DateWindow) EndDate() string {
	return w.End.Format(dateLayout)
}
