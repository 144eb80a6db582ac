// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the chat-completion service behind a small client
// interface so pipeline stages can be tested against fakes. It supports a
// free-text mode and a schema-constrained structured-output mode.
package llm

import "context"

// Request holds the inputs for one completion call. Per-call overrides
// (temperature, model) are call-site configuration, not client state.
type Request struct {
	// System is the system prompt.
	System string

	// User is the user prompt.
	User string

	// Model overrides the client's default model when non-empty.
	Model string

	// Temperature overrides the model default when non-nil.
	Temperature *float32
}

// Client is the chat-completion service contract. Complete returns free
// text; CompleteStructured constrains the response to schema and decodes
// the resulting JSON into out.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	CompleteStructured(ctx context.Context, req Request, schema *Schema, out any) error
}

// Type enumerates JSON schema value types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema is a provider-neutral response schema for structured output.
// Implementations translate it to their native schema representation.
type Schema struct {
	Type        Type
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}

// Temp returns a pointer to t for use as Request.Temperature.
func Temp(t float32) *float32 { return &t }
