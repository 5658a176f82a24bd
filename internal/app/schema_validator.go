package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// boardSchemaURL names the embedded board schema resource.
const boardSchemaURL = "board.schema.json"

// boardSchemaJSON describes the persisted board document. version and
// exported_at are only present in exported snapshots.
const boardSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["todo", "doing", "done"],
	"additionalProperties": false,
	"properties": {
		"version": {"const": "tavla.v1"},
		"exported_at": {"type": "string"},
		"todo": {"$ref": "#/$defs/labels"},
		"doing": {"$ref": "#/$defs/labels"},
		"done": {"$ref": "#/$defs/labels"}
	},
	"$defs": {
		"labels": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

var (
	boardSchemaOnce sync.Once
	boardSchema     *jsonschema.Schema
	boardSchemaErr  error
)

// SchemaValidationError describes a deterministic schema-validation failure.
type SchemaValidationError struct {
	Path    string
	Message string
}

// Error renders the schema-validation failure.
func (e SchemaValidationError) Error() string {
	path := strings.TrimSpace(e.Path)
	if path == "" {
		path = "$"
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

// ValidateBoardPayload validates raw JSON bytes against the board schema.
func ValidateBoardPayload(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return SchemaValidationError{Path: "$", Message: "empty payload"}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return SchemaValidationError{Path: "$", Message: fmt.Sprintf("invalid JSON payload: %v", err)}
	}
	schema, err := compiledBoardSchema()
	if err != nil {
		return fmt.Errorf("compile board schema: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return mapSchemaError(err)
	}
	return nil
}

// compiledBoardSchema compiles the board schema once.
func compiledBoardSchema() (*jsonschema.Schema, error) {
	boardSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(boardSchemaURL, strings.NewReader(boardSchemaJSON)); err != nil {
			boardSchemaErr = err
			return
		}
		boardSchema, boardSchemaErr = compiler.Compile(boardSchemaURL)
	})
	return boardSchema, boardSchemaErr
}

// mapSchemaError converts the first leaf validation cause into a SchemaValidationError.
func mapSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return SchemaValidationError{Path: "$", Message: err.Error()}
	}
	leaf := firstLeafCause(ve)
	return SchemaValidationError{
		Path:    jsonPointerToPath(leaf.InstanceLocation),
		Message: leaf.Message,
	}
}

// firstLeafCause walks causes depth-first and returns the first leaf.
func firstLeafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// jsonPointerToPath renders "/todo/1" as "$.todo[1]".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return "$"
	}
	var b strings.Builder
	b.WriteString("$")
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		b.WriteString(".")
		b.WriteString(part)
	}
	return b.String()
}
