package calendar

import (
	"context"
	"errors"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/teemow/voicecal/internal/errs"
)

// eventsAPI is the narrow surface of the Google Calendar events API the
// client depends on. Production code wraps *calendar.Service; tests use an
// in-memory fake.
type eventsAPI interface {
	Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error)
	List(ctx context.Context, timeMin, timeMax time.Time) ([]*calendar.Event, error)
	Get(ctx context.Context, eventID string) (*calendar.Event, error)
	Update(ctx context.Context, eventID string, event *calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// googleEventsAPI implements eventsAPI against the primary calendar of a
// Google Calendar service.
type googleEventsAPI struct {
	svc *calendar.Service
}

func (g *googleEventsAPI) Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	created, err := g.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError("insert", "", err)
	}
	return created, nil
}

func (g *googleEventsAPI) List(ctx context.Context, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	events, err := g.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapAPIError("list", "", err)
	}
	return events.Items, nil
}

func (g *googleEventsAPI) Get(ctx context.Context, eventID string) (*calendar.Event, error) {
	event, err := g.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError("get", eventID, err)
	}
	return event, nil
}

func (g *googleEventsAPI) Update(ctx context.Context, eventID string, event *calendar.Event) (*calendar.Event, error) {
	updated, err := g.svc.Events.Update(calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError("update", eventID, err)
	}
	return updated, nil
}

func (g *googleEventsAPI) Delete(ctx context.Context, eventID string) error {
	if err := g.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return mapAPIError("delete", eventID, err)
	}
	return nil
}

// mapAPIError translates Google API failures into the application error
// taxonomy: a 404 referencing an event becomes NotFoundError, everything
// else is a ProviderError.
func mapAPIError(op, eventID string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound && eventID != "" {
		return &errs.NotFoundError{EventID: eventID}
	}
	return errs.WrapProvider("calendar", op, err)
}
