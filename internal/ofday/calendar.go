// Package ofday implements platform-day arithmetic. A platform day is a
// fixed-offset accounting window: it starts at a configured local hour
// (01:00 Berlin for OnlyFans) and runs 24 hours, so it is not aligned to
// local midnight and its UTC offset shifts with DST.
package ofday

import (
	"fmt"
	"time"

	"valeod/internal/structures"
)

type Calendar struct {
	Location  *time.Location
	StartHour int
}

func NewCalendar(conf *structures.Config) (*Calendar, error) {
	loc, err := time.LoadLocation(conf.Reports.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports timezone %q: %w", conf.Reports.Timezone, err)
	}
	return &Calendar{Location: loc, StartHour: conf.Reports.DayStartHour}, nil
}

// DayRange returns the UTC bounds of the platform day that begins on the
// given calendar date. The window is closed-open in spirit: end is the next
// day's start minus one microsecond, so consecutive days neither gap nor
// overlap.
func (c *Calendar) DayRange(date time.Time) (time.Time, time.Time) {
	y, m, d := date.In(c.Location).Date()
	startLocal := time.Date(y, m, d, c.StartHour, 0, 0, 0, c.Location)
	endLocal := startLocal.AddDate(0, 0, 1).Add(-time.Microsecond)
	return startLocal.UTC(), endLocal.UTC()
}

// CurrentDayRange returns the running platform day: its start through now.
// Before the start hour the previous calendar date's day is still open.
func (c *Calendar) CurrentDayRange(now time.Time) (time.Time, time.Time) {
	local := now.In(c.Location)
	y, m, d := local.Date()
	startLocal := time.Date(y, m, d, c.StartHour, 0, 0, 0, c.Location)
	if local.Before(startLocal) {
		startLocal = startLocal.AddDate(0, 0, -1)
	}
	return startLocal.UTC(), now.UTC()
}

// PreviousDayRange returns the last fully completed platform day.
func (c *Calendar) PreviousDayRange(now time.Time) (time.Time, time.Time) {
	yesterday := now.In(c.Location).AddDate(0, 0, -1)
	return c.DayRange(yesterday)
}

// WeekRange returns the trailing seven completed platform days, ending with
// yesterday's.
func (c *Calendar) WeekRange(now time.Time) (time.Time, time.Time) {
	local := now.In(c.Location)
	endDay := local.AddDate(0, 0, -1)
	startDay := endDay.AddDate(0, 0, -6)

	start, _ := c.DayRange(startDay)
	_, end := c.DayRange(endDay)
	return start, end
}
