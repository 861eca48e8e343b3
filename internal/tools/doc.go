// Package tools defines the fixed tool registry the agent exposes to the
// language model: five calendar tools with JSON Schema parameter
// definitions and typed argument decoding.
//
// Dispatch never fails: unknown tools and handler errors are folded into
// a structured error payload that goes back to the model, which decides
// how to recover or explain the problem to the user.
package tools
