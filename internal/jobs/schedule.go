package jobs

import "time"

// gron ships only host-local daily schedules; the reporting day is anchored
// to the reference zone, so the schedules are implemented here against
// gron's Schedule interface.

// dailyAt fires once per day at the given hour in loc.
type dailyAt struct {
	loc  *time.Location
	hour int
}

func (s dailyAt) Next(t time.Time) time.Time {
	lt := t.In(s.loc)
	next := time.Date(lt.Year(), lt.Month(), lt.Day(), s.hour, 0, 0, 0, s.loc)
	if !next.After(lt) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// weeklyAt fires once per week on the given weekday at the given hour in loc.
type weeklyAt struct {
	loc     *time.Location
	hour    int
	weekday time.Weekday
}

func (s weeklyAt) Next(t time.Time) time.Time {
	lt := t.In(s.loc)
	next := time.Date(lt.Year(), lt.Month(), lt.Day(), s.hour, 0, 0, 0, s.loc)
	for next.Weekday() != s.weekday || !next.After(lt) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
