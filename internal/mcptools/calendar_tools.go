package mcptools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/voicecal/internal/calendar"
	"github.com/teemow/voicecal/internal/server"
)

// RegisterCalendarTools registers the calendar tools with the MCP server.
// The tool surface mirrors the agent registry so an MCP client can drive
// the same five operations.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createEventTool := mcp.NewTool("create_event",
		mcp.WithDescription("Create a calendar event on the primary calendar"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Event date in YYYY-MM-DD format"),
		),
		mcp.WithString("time",
			mcp.Required(),
			mcp.Description("Event start time in 24-hour HH:MM format"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Description("Event duration in minutes (default 60)"),
		),
		mcp.WithString("description",
			mcp.Description("Optional event description"),
		),
	)
	s.AddTool(createEventTool, instrumentedHandler("create_event", "create", sc, handleCreateEvent))

	listEventsTool := mcp.NewTool("list_events",
		mcp.WithDescription("List calendar events starting from a date"),
		mcp.WithString("date",
			mcp.Description("Start date in YYYY-MM-DD format, or 'today' (default)"),
		),
		mcp.WithNumber("days_ahead",
			mcp.Description("Number of days to look ahead (default 1)"),
		),
	)
	s.AddTool(listEventsTool, instrumentedHandler("list_events", "list", sc, handleListEvents))

	deleteEventTool := mcp.NewTool("delete_event",
		mcp.WithDescription("Delete a calendar event by its event ID"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)
	s.AddTool(deleteEventTool, instrumentedHandler("delete_event", "delete", sc, handleDeleteEvent))

	deleteEventByTitleTool := mcp.NewTool("delete_event_by_title",
		mcp.WithDescription("Delete a calendar event by its title (case-insensitive, earliest match wins)"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the event to delete"),
		),
		mcp.WithString("date",
			mcp.Description("Start date of the search range in YYYY-MM-DD format, or 'today' (default)"),
		),
		mcp.WithNumber("days_ahead",
			mcp.Description("Number of days to search ahead (default 1)"),
		),
	)
	s.AddTool(deleteEventByTitleTool, instrumentedHandler("delete_event_by_title", "delete", sc, handleDeleteEventByTitle))

	updateEventTool := mcp.NewTool("update_event",
		mcp.WithDescription("Update an existing calendar event; only provided fields change, date and time go together"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("title",
			mcp.Description("New event title"),
		),
		mcp.WithString("date",
			mcp.Description("New event date in YYYY-MM-DD format (requires time)"),
		),
		mcp.WithString("time",
			mcp.Description("New event start time in 24-hour HH:MM format (requires date)"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Description("New event duration in minutes"),
		),
	)
	s.AddTool(updateEventTool, instrumentedHandler("update_event", "update", sc, handleUpdateEvent))

	return nil
}

func getClient(sc *server.ServerContext) (*calendar.Client, error) {
	client := sc.CalendarClient()
	if client == nil {
		return nil, fmt.Errorf("no calendar token found; run 'voicecal auth' first")
	}
	return client, nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, _ := args["title"].(string)
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	date, _ := args["date"].(string)
	if date == "" {
		return mcp.NewToolResultError("date is required"), nil
	}
	startTime, _ := args["time"].(string)
	if startTime == "" {
		return mcp.NewToolResultError("time is required"), nil
	}

	duration := 0
	if v, ok := args["duration_minutes"].(float64); ok {
		duration = int(v)
	}
	description, _ := args["description"].(string)

	client, err := getClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := client.CreateEvent(ctx, calendar.CreateEventInput{
		Title:           title,
		Date:            date,
		Time:            startTime,
		DurationMinutes: duration,
		Description:     description,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	result := fmt.Sprintf("Created event %q (%s) starting %s", created.Title, created.ID, created.Start.Format(time.RFC3339))
	if created.Link != "" {
		result += "\nLink: " + created.Link
	}
	return mcp.NewToolResultText(result), nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	date, _ := args["date"].(string)
	daysAhead := 0
	if v, ok := args["days_ahead"].(float64); ok {
		daysAhead = int(v)
	}

	client, err := getClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx, date, daysAhead)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	result := fmt.Sprintf("Found %d events:\n\n", len(events))
	for i, event := range events {
		result += fmt.Sprintf("%d. %s\n", i+1, event.Title)
		result += fmt.Sprintf("   ID: %s\n", event.ID)
		result += fmt.Sprintf("   Start: %s\n", event.Start.Format(time.RFC3339))
		if event.Description != "" {
			result += fmt.Sprintf("   Description: %s\n", event.Description)
		}
		result += "\n"
	}
	return mcp.NewToolResultText(result), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, _ := args["event_id"].(string)
	if eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	client, err := getClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.DeleteEvent(ctx, eventID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted", eventID)), nil
}

func handleDeleteEventByTitle(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, _ := args["title"].(string)
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	date, _ := args["date"].(string)
	daysAhead := 0
	if v, ok := args["days_ahead"].(float64); ok {
		daysAhead = int(v)
	}

	client, err := getClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := client.DeleteEventByTitle(ctx, title, date, daysAhead)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}
	if !res.Success {
		return mcp.NewToolResultError(res.Message), nil
	}
	return mcp.NewToolResultText(res.Message), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, _ := args["event_id"].(string)
	if eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	title, _ := args["title"].(string)
	date, _ := args["date"].(string)
	startTime, _ := args["time"].(string)
	duration := 0
	if v, ok := args["duration_minutes"].(float64); ok {
		duration = int(v)
	}

	client, err := getClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updated, err := client.UpdateEvent(ctx, calendar.UpdateEventInput{
		EventID:         eventID,
		Title:           title,
		Date:            date,
		Time:            startTime,
		DurationMinutes: duration,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated event %q (%s) starting %s", updated.Title, updated.ID, updated.Start.Format(time.RFC3339))), nil
}
