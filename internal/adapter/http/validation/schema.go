package validation

import (
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

type Mode string

const (
	CreateMode Mode = "create"
	UpdateMode Mode = "update"
)

const todoProperties = `{
	"title": {"type": "string"},
	"completed": {"type": "boolean"},
	"metadata": {"type": "object"}
}`

var createSchemaSource = fmt.Sprintf(`{
	"type": "object",
	"properties": %s,
	"required": ["title"]
}`, todoProperties)

var updateSchemaSource = fmt.Sprintf(`{
	"type": "object",
	"properties": %s,
	"required": ["completed"]
}`, todoProperties)

var schemas = map[Mode]*jsonschema.Schema{
	CreateMode: jsonschema.MustCompileString("https://todoapi.local/schemas/todo-create.json", createSchemaSource),
	UpdateMode: jsonschema.MustCompileString("https://todoapi.local/schemas/todo-update.json", updateSchemaSource),
}

// Validate checks a decoded JSON payload against the schema of the mode.
// It returns nil or a *ValidationError naming the violated constraint.
func Validate(payload any, mode Mode) error {
	schema, ok := schemas[mode]

	if !ok {
		return &ValidationError{Message: fmt.Sprintf("unknown validation mode %q", mode)}
	}

	if err := schema.Validate(payload); err != nil {
		return mapSchemaError(err)
	}

	return nil
}

func mapSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)

	if !ok {
		return &ValidationError{Message: err.Error()}
	}

	if leaf := firstLeaf(ve); leaf != nil {
		return &ValidationError{
			Field:   strings.TrimPrefix(leaf.InstanceLocation, "/"),
			Message: leaf.Message,
		}
	}

	return &ValidationError{Message: ve.Message}
}

// firstLeaf walks the cause tree down to the first concrete violation.
func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	if err == nil {
		return nil
	}

	if len(err.Causes) == 0 {
		return err
	}

	for _, cause := range err.Causes {
		if leaf := firstLeaf(cause); leaf != nil {
			return leaf
		}
	}

	return nil
}
