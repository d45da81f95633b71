// Package calendar renders aggregated loan data into an iCalendar
// document. Rendering is pure: identical data and event name produce
// identical events, so calendar clients recognize them across refreshes
// instead of accumulating duplicates.
package calendar

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"iopac-calendar/scraper"
)

const (
	calendarName   = "IOPAC"
	reservedSuffix = " RESERVIERT"

	dateLayout      = "2006-01-02"
	timestampLayout = "20060102T150405Z"

	// Reminders fire at 09:00 local time on the day before the due date.
	alarmHour = 9
)

// Build creates one all-day event per distinct due date, with a display
// alarm the prior morning and a description listing every item due that
// day as "<account>: <title> [<media type>]".
func Build(data scraper.Data, eventName string) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetName(calendarName)
	cal.SetXWRCalName(calendarName)

	for _, returnOn := range sortedDates(data) {
		lines := make([]string, 0, len(data[returnOn]))
		for _, loan := range data[returnOn] {
			line := fmt.Sprintf("%s: %s [%s]", loan.Account, loan.Title, loan.MediaType)
			if loan.Reserved {
				line += reservedSuffix
			}
			lines = append(lines, line)
		}

		alarmAt := alarmTime(returnOn).UTC()

		event := cal.AddEvent(makeUID(returnOn.Format(dateLayout)))
		event.SetDtStampTime(time.Now())
		event.SetSummary(eventName)
		event.SetDescription(strings.Join(lines, "\n"))
		event.SetProperty(ics.ComponentPropertyClass, "PUBLIC")
		event.SetAllDayStartAt(returnOn)
		event.SetAllDayEndAt(returnOn.AddDate(0, 0, 1))

		alarm := event.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetProperty(ics.ComponentPropertyDescription, "Reminder")
		alarm.SetProperty(ics.ComponentPropertyUniqueId,
			makeUID(returnOn.Format(dateLayout)+alarmAt.Format(timestampLayout)))
		alarm.SetTrigger(alarmAt.Format(timestampLayout),
			ics.WithValue(string(ics.ValueDataTypeDateTime)))
	}

	return cal
}

// alarmTime is 09:00 local time on the day before the due date.
func alarmTime(returnOn time.Time) time.Time {
	prev := returnOn.AddDate(0, 0, -1)
	return time.Date(prev.Year(), prev.Month(), prev.Day(), alarmHour, 0, 0, 0, time.Local)
}

// makeUID derives a stable RFC 4122 shaped identifier from its input.
func makeUID(input string) string {
	sum := md5.Sum([]byte(input))
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		panic(err) // 16 bytes in, cannot fail
	}
	return id.String()
}

func sortedDates(data scraper.Data) []time.Time {
	dates := make([]time.Time, 0, len(data))
	for date := range data {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
