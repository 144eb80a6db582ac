// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenAIClient implements Client against the Google GenAI API.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a GenAI-backed client using the given API key and
// default model.
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model}, nil
}

// Complete issues a free-text completion.
func (c *GenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	cfg := c.baseConfig(req)

	resp, err := c.client.Models.GenerateContent(ctx, c.pickModel(req), userContents(req), cfg)
	if err != nil {
		return "", fmt.Errorf("calling GenAI API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GenAI API returned empty content")
	}
	return text, nil
}

// CompleteStructured issues a schema-constrained completion and decodes the
// JSON response into out.
func (c *GenAIClient) CompleteStructured(ctx context.Context, req Request, schema *Schema, out any) error {
	cfg := c.baseConfig(req)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = toGenAISchema(schema)

	resp, err := c.client.Models.GenerateContent(ctx, c.pickModel(req), userContents(req), cfg)
	if err != nil {
		return fmt.Errorf("calling GenAI API: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return fmt.Errorf("GenAI API returned empty content")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("parsing structured response: %w", err)
	}
	return nil
}

func (c *GenAIClient) pickModel(req Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func (c *GenAIClient) baseConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(*req.Temperature)
	}
	return cfg
}

func userContents(req Request) []*genai.Content {
	return []*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)}
}

// toGenAISchema translates the provider-neutral schema to the GenAI form.
func toGenAISchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenAISchema(s.Items),
	}

	switch s.Type {
	case TypeString:
		out.Type = genai.TypeString
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeInteger:
		out.Type = genai.TypeInteger
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	case TypeArray:
		out.Type = genai.TypeArray
	case TypeObject:
		out.Type = genai.TypeObject
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenAISchema(prop)
		}
	}

	return out
}
