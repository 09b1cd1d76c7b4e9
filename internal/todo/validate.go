package todo

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

const schemaURL = "tdl://todo.schema.json"

// Schema is the JSON Schema every task file must satisfy.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "tdl task file",
  "type": "object",
  "required": ["name", "tasks"],
  "properties": {
    "name": {"type": "string"},
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "status"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "name": {"type": "string"},
          "status": {"enum": ["pending", "completed"]}
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func taskSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // path to the offending value, e.g. tasks[2].name
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
}

// Err joins all errors into one, or returns nil for a valid result.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

func (r *ValidationResult) add(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// ValidateDocument checks raw task file bytes against the schema and the
// list invariants.
func ValidateDocument(data []byte) *ValidationResult {
	result := &ValidationResult{Valid: true}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		result.add(&ValidationError{Err: fmt.Errorf("parse todo file: %w", err)})
		return result
	}

	schema, err := taskSchema()
	if err != nil {
		result.add(&ValidationError{Err: err})
		return result
	}
	if err := schema.Validate(doc); err != nil {
		appendSchemaErrors(result, err)
		return result
	}

	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		result.add(&ValidationError{Err: fmt.Errorf("parse todo file: %w", err)})
		return result
	}
	l.validateInvariants(result)
	return result
}

// validateInvariants covers the rules the schema cannot express.
func (l *List) validateInvariants(result *ValidationResult) {
	ids := make(map[int]int, len(l.Tasks))
	names := make(map[string]int, len(l.Tasks))
	for i, t := range l.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if first, ok := ids[t.ID]; ok {
			result.add(&ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("id %d already used by tasks[%d]", t.ID, first),
			})
		} else {
			ids[t.ID] = i
		}
		if first, ok := names[t.Name]; ok {
			result.add(&ValidationError{
				Path: path + ".name",
				Err:  fmt.Errorf("name %q already used by tasks[%d]", t.Name, first),
			})
		} else {
			names[t.Name] = i
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.add(err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.add(&ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/tasks/0/name" into "tasks[0].name".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
