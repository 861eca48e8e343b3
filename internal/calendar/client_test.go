package calendar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/voicecal/internal/errs"
)

// fakeEventsAPI is an in-memory stand-in for the Google Calendar events API.
// List applies the same half-open time filtering as the real API but
// deliberately returns events in insertion order so the client's sorting is
// exercised.
type fakeEventsAPI struct {
	events      map[string]*calendar.Event
	order       []string
	nextID      int
	updateCalls int
}

func newFakeEventsAPI() *fakeEventsAPI {
	return &fakeEventsAPI{events: make(map[string]*calendar.Event)}
}

func (f *fakeEventsAPI) Insert(_ context.Context, event *calendar.Event) (*calendar.Event, error) {
	f.nextID++
	stored := *event
	stored.Id = fmt.Sprintf("evt-%d", f.nextID)
	stored.HtmlLink = "https://calendar.example.com/" + stored.Id
	f.events[stored.Id] = &stored
	f.order = append(f.order, stored.Id)
	return &stored, nil
}

func (f *fakeEventsAPI) List(_ context.Context, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	var items []*calendar.Event
	for _, id := range f.order {
		event, ok := f.events[id]
		if !ok {
			continue
		}
		start, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			continue
		}
		if !start.Before(timeMin) && start.Before(timeMax) {
			items = append(items, event)
		}
	}
	return items, nil
}

func (f *fakeEventsAPI) Get(_ context.Context, eventID string) (*calendar.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, &errs.NotFoundError{EventID: eventID}
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventsAPI) Update(_ context.Context, eventID string, event *calendar.Event) (*calendar.Event, error) {
	f.updateCalls++
	if _, ok := f.events[eventID]; !ok {
		return nil, &errs.NotFoundError{EventID: eventID}
	}
	stored := *event
	stored.Id = eventID
	f.events[eventID] = &stored
	return &stored, nil
}

func (f *fakeEventsAPI) Delete(_ context.Context, eventID string) error {
	if _, ok := f.events[eventID]; !ok {
		return &errs.NotFoundError{EventID: eventID}
	}
	delete(f.events, eventID)
	return nil
}

func newTestClient(t *testing.T) (*Client, *fakeEventsAPI) {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	api := newFakeEventsAPI()
	client := newClient(api, loc)
	client.now = func() time.Time {
		return time.Date(2024, 6, 10, 9, 30, 0, 0, loc)
	}
	return client, api
}

func TestCreateEventThenList(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, CreateEventInput{
		Title: "Lunch with Sarah",
		Date:  "2024-06-11",
		Time:  "12:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Lunch with Sarah", created.Title)
	assert.NotEmpty(t, created.Link)

	want := time.Date(2024, 6, 11, 12, 0, 0, 0, client.loc)
	assert.True(t, created.Start.Equal(want), "start = %v, want %v", created.Start, want)

	events, err := client.ListEvents(ctx, "2024-06-11", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Start.Equal(want))
}

func TestCreateEventDefaultDuration(t *testing.T) {
	client, api := newTestClient(t)

	created, err := client.CreateEvent(context.Background(), CreateEventInput{
		Title: "Standup",
		Date:  "2024-06-11",
		Time:  "09:00",
	})
	require.NoError(t, err)

	stored := api.events[created.ID]
	start, err := time.Parse(time.RFC3339, stored.Start.DateTime)
	require.NoError(t, err)
	end, err := time.Parse(time.RFC3339, stored.End.DateTime)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(DefaultDurationMinutes)*time.Minute, end.Sub(start))
}

func TestCreateEventInvalidDateTime(t *testing.T) {
	client, _ := newTestClient(t)

	tests := []struct {
		name string
		date string
		time string
	}{
		{name: "bad date", date: "June 11", time: "12:00"},
		{name: "bad time", date: "2024-06-11", time: "noon"},
		{name: "swapped", date: "12:00", time: "2024-06-11"},
		{name: "empty", date: "", time: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateEvent(context.Background(), CreateEventInput{
				Title: "Broken",
				Date:  tt.date,
				Time:  tt.time,
			})
			assert.True(t, errs.IsValidation(err), "expected ValidationError, got %v", err)
		})
	}
}

func TestListEventsRangeAndOrder(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	// Inserted out of chronological order on purpose.
	for _, ev := range []struct{ title, date, clock string }{
		{"Dinner", "2024-06-11", "19:00"},
		{"Breakfast", "2024-06-11", "08:00"},
		{"Next week", "2024-06-18", "10:00"},
		{"Lunch", "2024-06-12", "12:00"},
	} {
		_, err := client.CreateEvent(ctx, CreateEventInput{Title: ev.title, Date: ev.date, Time: ev.clock})
		require.NoError(t, err)
	}

	events, err := client.ListEvents(ctx, "2024-06-11", 2)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Breakfast", events[0].Title)
	assert.Equal(t, "Dinner", events[1].Title)
	assert.Equal(t, "Lunch", events[2].Title)

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Start.Before(events[i-1].Start), "events not sorted ascending")
	}
}

func TestListEventsHalfOpenBoundary(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	// Midnight at the upper bound must be excluded.
	_, err := client.CreateEvent(ctx, CreateEventInput{Title: "Midnight", Date: "2024-06-12", Time: "00:00"})
	require.NoError(t, err)

	events, err := client.ListEvents(ctx, "2024-06-11", 1)
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = client.ListEvents(ctx, "2024-06-12", 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestListEventsToday(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.CreateEvent(ctx, CreateEventInput{Title: "Today's thing", Date: "2024-06-10", Time: "15:00"})
	require.NoError(t, err)

	for _, date := range []string{"today", "Today", ""} {
		events, err := client.ListEvents(ctx, date, 1)
		require.NoError(t, err)
		assert.Len(t, events, 1, "date %q", date)
	}
}

func TestListEventsInvalidDate(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ListEvents(context.Background(), "tomorrow", 1)
	assert.True(t, errs.IsValidation(err), "expected ValidationError, got %v", err)
}

func TestDeleteEvent(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, CreateEventInput{Title: "Doomed", Date: "2024-06-11", Time: "10:00"})
	require.NoError(t, err)

	require.NoError(t, client.DeleteEvent(ctx, created.ID))
	assert.Empty(t, api.events)

	err = client.DeleteEvent(ctx, "missing-id")
	assert.True(t, errs.IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestDeleteEventByTitle(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	// Two events share the title; the earlier one must win.
	later, err := client.CreateEvent(ctx, CreateEventInput{Title: "Gym", Date: "2024-06-10", Time: "18:00"})
	require.NoError(t, err)
	_, err = client.CreateEvent(ctx, CreateEventInput{Title: "gym", Date: "2024-06-10", Time: "07:00"})
	require.NoError(t, err)

	result, err := client.DeleteEventByTitle(ctx, "GYM", "today", 1)
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, stillThere := api.events[later.ID]
	assert.True(t, stillThere, "later event should survive; earliest match wins")
}

func TestDeleteEventByTitleNotFoundIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.CreateEvent(ctx, CreateEventInput{Title: "Lunch", Date: "2024-06-10", Time: "12:00"})
	require.NoError(t, err)

	first, err := client.DeleteEventByTitle(ctx, "Dentist", "today", 1)
	require.NoError(t, err)
	second, err := client.DeleteEventByTitle(ctx, "Dentist", "today", 1)
	require.NoError(t, err)

	assert.False(t, first.Success)
	assert.Equal(t, first, second)
}

func TestDeleteEventByTitleEmptyRange(t *testing.T) {
	client, _ := newTestClient(t)

	result, err := client.DeleteEventByTitle(context.Background(), "Anything", "2024-07-01", 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No events")
}

func TestUpdateEventPreservesDuration(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, CreateEventInput{
		Title:           "Review",
		Date:            "2024-06-11",
		Time:            "14:00",
		DurationMinutes: 45,
	})
	require.NoError(t, err)

	updated, err := client.UpdateEvent(ctx, UpdateEventInput{
		EventID: created.ID,
		Date:    "2024-06-12",
		Time:    "16:30",
	})
	require.NoError(t, err)

	want := time.Date(2024, 6, 12, 16, 30, 0, 0, client.loc)
	assert.True(t, updated.Start.Equal(want))

	stored := api.events[created.ID]
	start, err := time.Parse(time.RFC3339, stored.Start.DateTime)
	require.NoError(t, err)
	end, err := time.Parse(time.RFC3339, stored.End.DateTime)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, end.Sub(start), "original duration must be preserved")
}

func TestUpdateEventPartialFields(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, CreateEventInput{
		Title:       "Old title",
		Date:        "2024-06-11",
		Time:        "14:00",
		Description: "keep me",
	})
	require.NoError(t, err)

	updated, err := client.UpdateEvent(ctx, UpdateEventInput{
		EventID: created.ID,
		Title:   "New title",
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)

	stored := api.events[created.ID]
	assert.Equal(t, "keep me", stored.Description)
	assert.True(t, updated.Start.Equal(created.Start), "start must be unchanged")
}

func TestUpdateEventDateWithoutTime(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, CreateEventInput{Title: "Fixed", Date: "2024-06-11", Time: "14:00"})
	require.NoError(t, err)
	updatesBefore := api.updateCalls

	_, err = client.UpdateEvent(ctx, UpdateEventInput{EventID: created.ID, Date: "2024-06-12"})
	assert.True(t, errs.IsValidation(err), "expected ValidationError, got %v", err)

	_, err = client.UpdateEvent(ctx, UpdateEventInput{EventID: created.ID, Time: "10:00"})
	assert.True(t, errs.IsValidation(err), "expected ValidationError, got %v", err)

	assert.Equal(t, updatesBefore, api.updateCalls, "no remote mutation on validation failure")
}

func TestUpdateEventNotFound(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.UpdateEvent(context.Background(), UpdateEventInput{EventID: "missing", Title: "x"})
	assert.True(t, errs.IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestToEventSummaryNil(t *testing.T) {
	summary := toEventSummary(nil, time.UTC)
	assert.Empty(t, summary.ID)
}

func TestParseEventTimeAllDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got := parseEventTime(&calendar.EventDateTime{Date: "2024-06-11"}, loc)
	assert.True(t, got.Equal(time.Date(2024, 6, 11, 0, 0, 0, 0, loc)))
}
