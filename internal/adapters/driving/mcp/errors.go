// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docqa. It enables AI assistants like Claude to ask questions against the
// locally indexed documents.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
