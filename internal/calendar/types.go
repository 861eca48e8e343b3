package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// CreateEventInput carries the arguments for creating an event. Date is
// YYYY-MM-DD, Time is 24-hour HH:MM, both interpreted in the client's
// location.
type CreateEventInput struct {
	Title           string
	Date            string
	Time            string
	DurationMinutes int
	Description     string
}

// UpdateEventInput carries the arguments for a partial event update. Zero
// values mean "leave unchanged"; Date and Time must be set together.
type UpdateEventInput struct {
	EventID         string
	Title           string
	Date            string
	Time            string
	DurationMinutes int
}

// CreatedEvent is the projection returned after creating an event.
type CreatedEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	Link  string    `json:"link,omitempty"`
}

// UpdatedEvent is the projection returned after updating an event.
type UpdatedEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
}

// EventSummary is the projection of an event used for listing.
type EventSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	Description string    `json:"description,omitempty"`
}

// DeleteResult reports the outcome of a delete-by-title operation. It is
// structured rather than an error so the model can narrate the outcome.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// toEventSummary converts a Google Calendar event to an EventSummary.
func toEventSummary(event *calendar.Event, loc *time.Location) EventSummary {
	if event == nil {
		return EventSummary{}
	}
	return EventSummary{
		ID:          event.Id,
		Title:       event.Summary,
		Start:       parseEventTime(event.Start, loc),
		Description: event.Description,
	}
}

// parseEventTime parses the start or end of an event. Timed events carry an
// RFC3339 DateTime; all-day events carry a bare date, resolved to midnight
// in loc.
func parseEventTime(edt *calendar.EventDateTime, loc *time.Location) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t.In(loc)
		}
		return time.Time{}
	}
	if edt.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", edt.Date, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}
