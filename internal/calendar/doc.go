// Package calendar provides a client for the five calendar operations the
// assistant exposes: create, list, delete by id, delete by title, and
// partial update.
//
// The client operates exclusively against the primary calendar of the
// authenticated Google account. Dates and times arrive as strings in the
// fixed YYYY-MM-DD / HH:MM wire format (the agent resolves relative
// expressions before calling) and are interpreted in a single configured
// timezone.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx, google.NewFileTokenProvider(), loc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListEvents(ctx, "today", 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
