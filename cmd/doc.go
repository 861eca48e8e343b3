// Package cmd implements the command-line interface for voicecal.
//
// This package provides the following commands:
//   - chat: Start the interactive voice/text assistant shell
//   - auth: Run the Google Calendar OAuth flow and cache the token
//   - serve: Start the MCP server exposing the calendar tools
//   - version: Display version information
//
// The chat command is the default command when no subcommand is specified.
package cmd
