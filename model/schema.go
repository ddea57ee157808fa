// Package model provides domain types shared across packages.
//
// The central type is Schema, a discriminated description of the arguments
// a tool accepts. Tools declare their contract as a Schema tree; the llm
// backends translate it into their wire formats and the tools package
// validates incoming arguments against it before dispatch.
package model

// SchemaType enumerates the node kinds a Schema can describe.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema describes the shape of a tool's arguments. It is a tagged union:
// primitive nodes carry only Type/Description/Enum/Nullable, array nodes
// carry Items, object nodes carry Properties and Required. Nesting is
// unrestricted since tool arguments may be arbitrarily deep.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// String creates a string schema node.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Integer creates an integer schema node.
func Integer(description string) *Schema {
	return &Schema{Type: TypeInteger, Description: description}
}

// Number creates a floating-point schema node.
func Number(description string) *Schema {
	return &Schema{Type: TypeNumber, Description: description}
}

// Boolean creates a boolean schema node.
func Boolean(description string) *Schema {
	return &Schema{Type: TypeBoolean, Description: description}
}

// Array creates an array schema node with the given item schema.
func Array(description string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// Object creates an object schema node. Required lists the property names
// that must be present.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

// WithEnum restricts a string node to the given values.
func (s *Schema) WithEnum(values ...string) *Schema {
	s.Enum = values
	return s
}

// AsNullable marks the node as accepting null.
func (s *Schema) AsNullable() *Schema {
	s.Nullable = true
	return s
}

// JSONMap renders the schema as a plain JSON-Schema-style map. Backends
// whose SDKs take loose maps (OpenAI, Anthropic) consume this form.
func (s *Schema) JSONMap() map[string]interface{} {
	if s == nil {
		return nil
	}

	out := map[string]interface{}{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Nullable {
		out["nullable"] = true
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONMap()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONMap()
	}
	return out
}
