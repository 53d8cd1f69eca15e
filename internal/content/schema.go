package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const presenceSchemaURL = "sitegen://content/presence.json"

// TextCodeRequiredMissing marks content that lacks a required top-level key.
const TextCodeRequiredMissing = "CONTENT_REQUIRED_MISSING"

// PresenceValidator checks that a content tree carries the configured
// top-level keys.
type PresenceValidator struct {
	schema   *jsonschema.Schema
	required []string
}

// NewPresenceValidator compiles a schema requiring every key in required.
// When schemaDoc is non-empty it is compiled instead of the generated schema.
func NewPresenceValidator(required []string, schemaDoc []byte) (*PresenceValidator, error) {
	doc := schemaDoc
	if len(bytes.TrimSpace(doc)) == 0 {
		generated, err := presenceSchema(required)
		if err != nil {
			return nil, err
		}
		doc = generated
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(presenceSchemaURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("content: load presence schema: %w", err)
	}
	schema, err := compiler.Compile(presenceSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("content: compile presence schema: %w", err)
	}

	return &PresenceValidator{
		schema:   schema,
		required: append([]string(nil), required...),
	}, nil
}

func presenceSchema(required []string) ([]byte, error) {
	keys := make([]string, 0, len(required))
	for _, key := range required {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return json.Marshal(map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": keys,
	})
}

// Validate returns a validation error listing every failed check, or nil.
func (v *PresenceValidator) Validate(tree Value) error {
	if v == nil || v.schema == nil {
		return nil
	}

	err := v.schema.Validate(tree.Interface())
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "content presence check failed").
			WithTextCode(TextCodeRequiredMissing)
	}

	var fields []goerrors.FieldError
	var messages []string
	for _, leaf := range validationLeaves(verr) {
		field := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if field == "" {
			field = "content"
		}
		fields = append(fields, goerrors.FieldError{Field: field, Message: leaf.Message})
		messages = append(messages, leaf.Message)
	}

	return goerrors.NewValidation("content failed presence checks: "+strings.Join(messages, "; "), fields...).
		WithTextCode(TextCodeRequiredMissing)
}

func validationLeaves(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, validationLeaves(cause)...)
	}
	return leaves
}
