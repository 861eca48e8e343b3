// Package server provides the shared state for the MCP server mode: a
// context that owns the calendar client and instrumentation, and a
// dedicated Prometheus metrics server.
package server
