// Package schemas provides JSON Schema validation for the embedded
// prompt files and for profile payloads arriving over the HTTP API.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// promptFileSchema requires every prompt file to be a flat object of
// non-empty string templates, which is what the loader assumes.
const promptFileSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"type": "string",
		"minLength": 1
	}
}`

// profileUpdateSchema constrains profile updates to the known fields.
const profileUpdateSchema = `{
	"type": "object",
	"required": ["field", "value"],
	"additionalProperties": false,
	"properties": {
		"field": {
			"type": "string",
			"enum": ["name", "job_title", "experience", "skills", "resume_content"]
		},
		"value": {
			"type": "string"
		}
	}
}`

// ValidationError carries per-field schema violations.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidatePromptFile checks that a prompt file's JSON content is a flat
// string-to-string object.
func ValidatePromptFile(content string) error {
	return validate(promptFileSchema, content)
}

// ValidateProfileUpdate checks a profile update payload.
func ValidateProfileUpdate(content string) error {
	return validate(profileUpdateSchema, content)
}

func validate(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed during load: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
