// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestToGenAISchema(t *testing.T) {
	in := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"grade": {
				Type: TypeString,
				Enum: []string{"relevant", "irrelevant"},
			},
			"passed": {Type: TypeBoolean},
			"scores": {
				Type:  TypeArray,
				Items: &Schema{Type: TypeNumber},
			},
		},
		Required: []string{"grade", "passed"},
	}

	out := toGenAISchema(in)
	if out.Type != genai.TypeObject {
		t.Errorf("type = %v", out.Type)
	}
	if len(out.Required) != 2 {
		t.Errorf("required = %v", out.Required)
	}
	if out.Properties["grade"].Type != genai.TypeString {
		t.Errorf("grade type = %v", out.Properties["grade"].Type)
	}
	if len(out.Properties["grade"].Enum) != 2 {
		t.Errorf("enum = %v", out.Properties["grade"].Enum)
	}
	if out.Properties["scores"].Items == nil || out.Properties["scores"].Items.Type != genai.TypeNumber {
		t.Error("nested array item schema not translated")
	}
}

func TestToGenAISchemaNil(t *testing.T) {
	if toGenAISchema(nil) != nil {
		t.Error("nil schema should map to nil")
	}
}

func TestPickModel(t *testing.T) {
	c := &GenAIClient{model: "gemini-2.5-flash"}
	if got := c.pickModel(Request{}); got != "gemini-2.5-flash" {
		t.Errorf("default model = %q", got)
	}
	if got := c.pickModel(Request{Model: "gemini-2.5-pro"}); got != "gemini-2.5-pro" {
		t.Errorf("override model = %q", got)
	}
}
