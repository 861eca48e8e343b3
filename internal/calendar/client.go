package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/voicecal/internal/errs"
	"github.com/teemow/voicecal/internal/google"
	"github.com/teemow/voicecal/internal/logging"
)

// calendarID is the single calendar the assistant operates against.
const calendarID = "primary"

// DefaultDurationMinutes is the event duration used when none is given.
const DefaultDurationMinutes = 60

// Wire formats for spoken dates and times after the model has resolved
// relative expressions.
const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Client wraps the Google Calendar service with the five operations the
// assistant exposes. All date and time strings are interpreted in the
// client's configured location.
type Client struct {
	api    eventsAPI
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// HasToken checks if a valid OAuth token exists for the calendar.
func HasToken() bool {
	return google.NewFileTokenProvider().HasToken()
}

// NewClient creates a calendar client authenticated through the given token
// provider. Dates and times are interpreted in loc.
func NewClient(ctx context.Context, tokenProvider google.TokenProvider, loc *time.Location) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token: %w", err)
	}

	conf, err := google.GetOAuthConfig()
	if err != nil {
		return nil, err
	}
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return newClient(&googleEventsAPI{svc: svc}, loc), nil
}

func newClient(api eventsAPI, loc *time.Location) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		api:    api,
		loc:    loc,
		now:    time.Now,
		logger: slog.Default(),
	}
}

// CreateEvent creates a single event starting at date+time in the client's
// location, ending durationMinutes later. Duration defaults to one hour,
// description may be empty.
func (c *Client) CreateEvent(ctx context.Context, in CreateEventInput) (*CreatedEvent, error) {
	start, err := c.parseStart(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	event := &calendar.Event{
		Summary:     in.Title,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: c.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: c.loc.String(),
		},
	}

	created, err := c.api.Insert(ctx, event)
	if err != nil {
		return nil, err
	}

	c.logger.Info("event created",
		logging.Operation("calendar.create"),
		slog.String("event_id", created.Id))

	return &CreatedEvent{
		ID:    created.Id,
		Title: created.Summary,
		Start: parseEventTime(created.Start, c.loc),
		Link:  created.HtmlLink,
	}, nil
}

// ListEvents returns events in the half-open range starting at date's
// midnight and extending daysAhead days, ascending by start time. An empty
// date or "today" resolves to the current day.
func (c *Client) ListEvents(ctx context.Context, date string, daysAhead int) ([]EventSummary, error) {
	startOfDay, err := c.resolveDay(date)
	if err != nil {
		return nil, err
	}
	if daysAhead <= 0 {
		daysAhead = 1
	}
	endOfRange := startOfDay.AddDate(0, 0, daysAhead)

	items, err := c.api.List(ctx, startOfDay, endOfRange)
	if err != nil {
		return nil, err
	}

	summaries := make([]EventSummary, 0, len(items))
	for _, event := range items {
		summaries = append(summaries, toEventSummary(event, c.loc))
	}

	// Callers rely on ascending start order: delete-by-title takes the
	// first match, so the earliest event must come first.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Start.Before(summaries[j].Start)
	})

	return summaries, nil
}

// DeleteEvent deletes an event by its identifier.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.api.Delete(ctx, eventID); err != nil {
		return err
	}
	c.logger.Info("event deleted",
		logging.Operation("calendar.delete"),
		slog.String("event_id", eventID))
	return nil
}

// DeleteEventByTitle deletes the first event in the range whose title
// matches case-insensitively. Both the "no events in range" and "no title
// match" outcomes are structured results, not errors, so the agent can
// relay them verbatim.
func (c *Client) DeleteEventByTitle(ctx context.Context, title, date string, daysAhead int) (*DeleteResult, error) {
	if date == "" {
		date = "today"
	}

	events, err := c.ListEvents(ctx, date, daysAhead)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return &DeleteResult{
			Success: false,
			Message: "No events found in the requested range",
		}, nil
	}

	for _, event := range events {
		if strings.EqualFold(event.Title, title) {
			if err := c.DeleteEvent(ctx, event.ID); err != nil {
				return nil, err
			}
			return &DeleteResult{
				Success: true,
				Message: fmt.Sprintf("Deleted %q scheduled at %s", event.Title, event.Start.Format(time.RFC3339)),
			}, nil
		}
	}

	return &DeleteResult{
		Success: false,
		Message: fmt.Sprintf("No event titled %q found in the requested range", title),
	}, nil
}

// UpdateEvent applies a partial update to an existing event. Omitted fields
// are preserved. Date and time must be supplied together; when they are and
// no duration is given, the event keeps its original duration.
func (c *Client) UpdateEvent(ctx context.Context, in UpdateEventInput) (*UpdatedEvent, error) {
	if (in.Date == "") != (in.Time == "") {
		return nil, errs.NewValidationError("date and time must be provided together")
	}

	existing, err := c.api.Get(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		existing.Summary = in.Title
	}

	if in.Date != "" && in.Time != "" {
		newStart, err := c.parseStart(in.Date, in.Time)
		if err != nil {
			return nil, err
		}

		duration := time.Duration(in.DurationMinutes) * time.Minute
		if in.DurationMinutes <= 0 {
			origStart := parseEventTime(existing.Start, c.loc)
			origEnd := parseEventTime(existing.End, c.loc)
			duration = origEnd.Sub(origStart)
		}

		existing.Start = &calendar.EventDateTime{
			DateTime: newStart.Format(time.RFC3339),
			TimeZone: c.loc.String(),
		}
		existing.End = &calendar.EventDateTime{
			DateTime: newStart.Add(duration).Format(time.RFC3339),
			TimeZone: c.loc.String(),
		}
	}

	updated, err := c.api.Update(ctx, in.EventID, existing)
	if err != nil {
		return nil, err
	}

	c.logger.Info("event updated",
		logging.Operation("calendar.update"),
		slog.String("event_id", updated.Id))

	return &UpdatedEvent{
		ID:    updated.Id,
		Title: updated.Summary,
		Start: parseEventTime(updated.Start, c.loc),
	}, nil
}

// parseStart combines a YYYY-MM-DD date and a 24-hour HH:MM time into an
// instant in the client's location.
func (c *Client) parseStart(date, clock string) (time.Time, error) {
	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, c.loc)
	if err != nil {
		return time.Time{}, errs.NewValidationError("invalid date/time %q %q: expected YYYY-MM-DD and HH:MM", date, clock)
	}
	return start, nil
}

// resolveDay resolves a date string to midnight of that day in the client's
// location. Empty and "today" resolve to the current day.
func (c *Client) resolveDay(date string) (time.Time, error) {
	if date == "" || strings.EqualFold(date, "today") {
		now := c.now().In(c.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc), nil
	}

	day, err := time.ParseInLocation(dateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, errs.NewValidationError("invalid date %q: expected YYYY-MM-DD or \"today\"", date)
	}
	return day, nil
}
