package google

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/guilherme-santos/tabcalendar/internal"
)

const timedEventLength = time.Hour

// newGoogleEvent maps a calendar event to Google's format. Events sitting
// exactly on midnight UTC carry no time of day and become all-day events.
func newGoogleEvent(prefix string, event *internal.Event) *calendar.Event {
	gevent := &calendar.Event{
		Summary: prefix + event.Name,
		Reminders: &calendar.EventReminders{
			UseDefault: true,
		},
	}
	if event.Notes != nil {
		gevent.Description = *event.Notes
	}

	date := event.Date.UTC()
	if date.Equal(date.Truncate(24 * time.Hour)) {
		gevent.Start = &calendar.EventDateTime{
			Date: date.Format(internal.DateFormat),
		}
		gevent.End = &calendar.EventDateTime{
			Date: date.AddDate(0, 0, 1).Format(internal.DateFormat),
		}
		return gevent
	}

	gevent.Start = &calendar.EventDateTime{
		DateTime: date.Format(time.RFC3339),
	}
	gevent.End = &calendar.EventDateTime{
		DateTime: date.Add(timedEventLength).Format(time.RFC3339),
	}
	return gevent
}
