// Package mcptools exposes the five calendar operations as MCP tools so
// external MCP clients can drive the same surface the voice agent uses.
package mcptools
