// Package validator provides interfaces and types for JSON Schema validation.
package validator

// A JSONDocument is a parsed JSON (or JSON-compatible YAML) document.
type JSONDocument interface{}

// A JSONSchema is a parsed JSON Document representing a JSON Schema.
// A Compiler must compile the JSONSchema before use, which will identify any JSON Schema issues.
type JSONSchema JSONDocument

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates a JSON document.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler. A Compiler first registers the
// schemas it will need and then compiles them by ID.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler.
	AddSchema(id string, data JSONSchema) error
	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	Compile(id string) (Validator, error)
}
