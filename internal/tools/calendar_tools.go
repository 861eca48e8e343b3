package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teemow/voicecal/internal/calendar"
	"github.com/teemow/voicecal/internal/errs"
)

// Tool names in the fixed registry.
const (
	ToolCreateEvent        = "create_event"
	ToolListEvents         = "list_events"
	ToolDeleteEvent        = "delete_event"
	ToolDeleteEventByTitle = "delete_event_by_title"
	ToolUpdateEvent        = "update_event"
)

// CalendarService is the calendar surface the tools dispatch into.
// *calendar.Client implements it.
type CalendarService interface {
	CreateEvent(ctx context.Context, in calendar.CreateEventInput) (*calendar.CreatedEvent, error)
	ListEvents(ctx context.Context, date string, daysAhead int) ([]calendar.EventSummary, error)
	DeleteEvent(ctx context.Context, eventID string) error
	DeleteEventByTitle(ctx context.Context, title, date string, daysAhead int) (*calendar.DeleteResult, error)
	UpdateEvent(ctx context.Context, in calendar.UpdateEventInput) (*calendar.UpdatedEvent, error)
}

// Argument types for each tool. The model emits arguments as a JSON
// object; decoding into these structs is the typed boundary where
// malformed arguments are rejected before any calendar call.

type createEventArgs struct {
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
}

type listEventsArgs struct {
	Date      string `json:"date"`
	DaysAhead int    `json:"days_ahead"`
}

type deleteEventArgs struct {
	EventID string `json:"event_id"`
}

type deleteEventByTitleArgs struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	DaysAhead int    `json:"days_ahead"`
}

type updateEventArgs struct {
	EventID         string `json:"event_id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// decodeArgs unmarshals raw tool arguments into a typed struct. An empty
// argument payload decodes to the zero value so tools with only optional
// arguments can be called without any.
func decodeArgs(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errs.NewValidationError("malformed tool arguments: %v", err)
	}
	return nil
}

// RegisterCalendarTools registers the five calendar tools on the registry.
func RegisterCalendarTools(r *Registry, svc CalendarService) error {
	register := func(def Definition, handler Handler) error {
		return r.Register(def, handler)
	}

	if err := register(Definition{
		Name:        ToolCreateEvent,
		Description: "Create a calendar event. Use this when the user wants to schedule something.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Event title",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Event date in YYYY-MM-DD format",
				},
				"time": map[string]interface{}{
					"type":        "string",
					"description": "Event start time in 24-hour HH:MM format",
				},
				"duration_minutes": map[string]interface{}{
					"type":        "integer",
					"description": "Event duration in minutes (default 60)",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional event description",
				},
			},
			"required": []string{"title", "date", "time"},
		},
	}, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		var args createEventArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Title == "" {
			return nil, errs.NewValidationError("create_event requires a title")
		}
		if args.Date == "" || args.Time == "" {
			return nil, errs.NewValidationError("create_event requires both date and time")
		}
		return svc.CreateEvent(ctx, calendar.CreateEventInput{
			Title:           args.Title,
			Date:            args.Date,
			Time:            args.Time,
			DurationMinutes: args.DurationMinutes,
			Description:     args.Description,
		})
	}); err != nil {
		return err
	}

	if err := register(Definition{
		Name:        ToolListEvents,
		Description: "List calendar events starting from a date. Use this to check the user's schedule.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Start date in YYYY-MM-DD format, or 'today' (default)",
				},
				"days_ahead": map[string]interface{}{
					"type":        "integer",
					"description": "Number of days to look ahead (default 1)",
				},
			},
		},
	}, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		var args listEventsArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		events, err := svc.ListEvents(ctx, args.Date, args.DaysAhead)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"events": events, "count": len(events)}, nil
	}); err != nil {
		return err
	}

	if err := register(Definition{
		Name:        ToolDeleteEvent,
		Description: "Delete a calendar event by its event ID.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"event_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the event to delete",
				},
			},
			"required": []string{"event_id"},
		},
	}, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		var args deleteEventArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.EventID == "" {
			return nil, errs.NewValidationError("delete_event requires an event_id")
		}
		if err := svc.DeleteEvent(ctx, args.EventID); err != nil {
			return nil, err
		}
		return calendar.DeleteResult{
			Success: true,
			Message: fmt.Sprintf("Event %s deleted", args.EventID),
		}, nil
	}); err != nil {
		return err
	}

	if err := register(Definition{
		Name:        ToolDeleteEventByTitle,
		Description: "Delete a calendar event by its title. Matches case-insensitively; if several events share the title, the earliest one in the range is deleted.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Title of the event to delete",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Start date of the search range in YYYY-MM-DD format, or 'today' (default)",
				},
				"days_ahead": map[string]interface{}{
					"type":        "integer",
					"description": "Number of days to search ahead (default 1)",
				},
			},
			"required": []string{"title"},
		},
	}, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		var args deleteEventByTitleArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Title == "" {
			return nil, errs.NewValidationError("delete_event_by_title requires a title")
		}
		return svc.DeleteEventByTitle(ctx, args.Title, args.Date, args.DaysAhead)
	}); err != nil {
		return err
	}

	if err := register(Definition{
		Name:        ToolUpdateEvent,
		Description: "Update an existing calendar event. Only the provided fields change; date and time must be given together. Duration changes only take effect together with a new date and time.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"event_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the event to update",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "New event title",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "New event date in YYYY-MM-DD format (requires time)",
				},
				"time": map[string]interface{}{
					"type":        "string",
					"description": "New event start time in 24-hour HH:MM format (requires date)",
				},
				"duration_minutes": map[string]interface{}{
					"type":        "integer",
					"description": "New event duration in minutes; without it the existing duration is preserved",
				},
			},
			"required": []string{"event_id"},
		},
	}, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		var args updateEventArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.EventID == "" {
			return nil, errs.NewValidationError("update_event requires an event_id")
		}
		return svc.UpdateEvent(ctx, calendar.UpdateEventInput{
			EventID:         args.EventID,
			Title:           args.Title,
			Date:            args.Date,
			Time:            args.Time,
			DurationMinutes: args.DurationMinutes,
		})
	}); err != nil {
		return err
	}

	return nil
}
