// Package llm - schema.go describes expected response shapes in a provider-neutral way.
package llm

import (
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// SchemaType is the JSON type of a schema node
type SchemaType string

// Supported schema node types
const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema defines the structure a provider must return.
// Fields keep their declaration order so the textual rendering is stable.
type Schema struct {
	Type        SchemaType
	Description string
	Fields      []Field
	Items       *Schema
	Required    []string
}

// Field is a named property of an object schema
type Field struct {
	Name   string
	Schema *Schema
}

// String returns a string schema with an optional description
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Object returns an object schema
func Object(required []string, fields ...Field) *Schema {
	return &Schema{Type: TypeObject, Fields: fields, Required: required}
}

// ArrayOf returns an array schema
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// toGenai converts the schema into Gemini's native response schema
func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Fields))
		for _, f := range s.Fields {
			out.Properties[f.Name] = f.Schema.toGenai()
		}
		out.Required = append([]string(nil), s.Required...)
	case TypeArray:
		out.Type = genai.TypeArray
		out.Items = s.Items.toGenai()
	default:
		out.Type = genai.TypeString
	}
	return out
}

// Describe renders the schema as an annotated JSON skeleton, for providers that
// only accept the expected shape as prompt text.
func (s *Schema) Describe() string {
	var sb strings.Builder
	s.describe(&sb, 0)
	return sb.String()
}

func (s *Schema) describe(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s.Type {
	case TypeObject:
		sb.WriteString("{\n")
		for i, f := range s.Fields {
			sb.WriteString(indent + "  \"" + f.Name + "\": ")
			f.Schema.describe(sb, depth+1)
			if i < len(s.Fields)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indent + "}")
	case TypeArray:
		sb.WriteString("[\n" + indent + "  ")
		s.Items.describe(sb, depth+1)
		sb.WriteString("\n" + indent + "]")
	default:
		hint := string(TypeString)
		if s.Description != "" {
			hint += " (" + s.Description + ")"
		}
		sb.WriteString("\"" + hint + "\"")
	}
}
