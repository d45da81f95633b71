package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iopac-calendar/scraper"
)

func sampleData() scraper.Data {
	june15 := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	june20 := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	return scraper.Data{
		june15: {
			{Account: "A", Title: "Krabat", MediaType: "Buch", ReturnOn: june15},
			{Account: "B", Title: "Momo", MediaType: "Buch", ReturnOn: june15, Reserved: true},
		},
		june20: {
			{Account: "B", Title: "Tintenherz", MediaType: "CD", ReturnOn: june20},
		},
	}
}

// propValue digs a property value out of a component's property list.
func propValue(props []ics.IANAProperty, name string) string {
	for _, p := range props {
		if p.IANAToken == name {
			return p.Value
		}
	}
	return ""
}

func TestBuild(t *testing.T) {
	cal := Build(sampleData(), "Bücherei Rückgabe")
	events := cal.Events()
	require.Len(t, events, 2)

	// Events come out date-sorted, June 15 first.
	first, second := events[0], events[1]

	assert.Equal(t, "Bücherei Rückgabe", first.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "PUBLIC", first.GetProperty(ics.ComponentPropertyClass).Value)
	assert.Equal(t,
		"A: Krabat [Buch]\nB: Momo [Buch] RESERVIERT",
		first.GetProperty(ics.ComponentPropertyDescription).Value)
	assert.Equal(t,
		"B: Tintenherz [CD]",
		second.GetProperty(ics.ComponentPropertyDescription).Value)

	assert.NotEqual(t,
		first.GetProperty(ics.ComponentPropertyUniqueId).Value,
		second.GetProperty(ics.ComponentPropertyUniqueId).Value)

	// One reminder each, the morning before the due date.
	firstAlarms := first.Alarms()
	require.Len(t, firstAlarms, 1)
	wantTrigger := time.Date(2024, 6, 14, 9, 0, 0, 0, time.Local).UTC().Format(timestampLayout)
	assert.Equal(t, wantTrigger, propValue(firstAlarms[0].Properties, "TRIGGER"))

	secondAlarms := second.Alarms()
	require.Len(t, secondAlarms, 1)
	wantTrigger = time.Date(2024, 6, 19, 9, 0, 0, 0, time.Local).UTC().Format(timestampLayout)
	assert.Equal(t, wantTrigger, propValue(secondAlarms[0].Properties, "TRIGGER"))
}

func TestBuildDeterministic(t *testing.T) {
	uids := func(cal *ics.Calendar) []string {
		var out []string
		for _, event := range cal.Events() {
			out = append(out, event.GetProperty(ics.ComponentPropertyUniqueId).Value)
			for _, alarm := range event.Alarms() {
				out = append(out, propValue(alarm.Properties, "UID"))
			}
		}
		return out
	}

	first := uids(Build(sampleData(), "Bücherei Rückgabe"))
	second := uids(Build(sampleData(), "Bücherei Rückgabe"))

	require.Len(t, first, 4)
	assert.Equal(t, first, second)
}

func TestBuildEmpty(t *testing.T) {
	cal := Build(scraper.Data{}, "Bücherei Rückgabe")
	serialized := cal.Serialize()

	assert.True(t, strings.HasPrefix(serialized, "BEGIN:VCALENDAR"))
	assert.NotContains(t, serialized, "BEGIN:VEVENT")
	assert.Contains(t, serialized, "NAME:IOPAC")
}

func TestAlarmTime(t *testing.T) {
	due := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 6, 14, 9, 0, 0, 0, time.Local)
	assert.True(t, alarmTime(due).Equal(want))
}

func TestMakeUID(t *testing.T) {
	uid := makeUID("2024-06-15")
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, uid)
	assert.Equal(t, uid, makeUID("2024-06-15"))
	assert.NotEqual(t, uid, makeUID("2024-06-16"))
}
