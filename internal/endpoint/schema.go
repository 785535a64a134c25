package endpoint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Op names a mutation or read that accepts a payload.
type Op string

// Supported operations.
const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpToggle Op = "toggle"
	OpDelete Op = "delete"
	OpGet    Op = "get"
)

// ErrUnknownOp is returned for an operation without a payload schema.
var ErrUnknownOp = errors.New("unknown operation")

var schemaSources = map[Op]string{
	OpAdd: `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1}
  }
}`,
	OpUpdate: `{
  "type": "object",
  "required": ["id", "name"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1}
  }
}`,
	OpToggle: `{
  "type": "object",
  "required": ["id", "isComplete"],
  "properties": {
    "id": {"type": "string"},
    "isComplete": {"type": "boolean"}
  }
}`,
	OpDelete: `{
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": "string"}
  }
}`,
	OpGet: `{
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": "string"}
  }
}`,
}

// schemas holds the compiled payload schemas, keyed by operation.
var schemas = compileSchemas()

func compileSchemas() map[Op]*jsonschema.Schema {
	out := make(map[Op]*jsonschema.Schema, len(schemaSources))
	for op, src := range schemaSources {
		out[op] = jsonschema.MustCompileString("mem://todos/"+string(op)+".json", src)
	}
	return out
}

// ValidatePayload checks raw against the schema for op. Schema violations
// are returned as a *types.ValidationError listing every offending field;
// a payload that is not JSON is reported against the "payload" field.
func ValidatePayload(op Op, raw []byte) error {
	schema, ok := schemas[op]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOp, op)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return types.NewValidationError("payload", "malformed JSON")
	}
	if dec.More() {
		return types.NewValidationError("payload", "malformed JSON")
	}

	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return types.NewValidationError("payload", err.Error())
		}
		var fields []types.FieldError
		collectSchemaErrors(&fields, ve)
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
		return types.NewValidationErrors(fields)
	}
	return nil
}

var quotedName = regexp.MustCompile(`'([^']+)'`)

// collectSchemaErrors flattens the cause tree into one FieldError per leaf.
func collectSchemaErrors(out *[]types.FieldError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		path := jsonPointerToPath(err.InstanceLocation)
		// "missing properties: 'id', 'name'" is reported at the parent.
		if strings.HasSuffix(err.KeywordLocation, "/required") {
			for _, m := range quotedName.FindAllStringSubmatch(err.Message, -1) {
				*out = append(*out, types.FieldError{Field: joinPath(path, m[1]), Message: "required"})
			}
			return
		}
		if path == "" {
			path = "payload"
		}
		*out = append(*out, types.FieldError{Field: path, Message: err.Message})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		path = joinPath(path, part)
	}
	return path
}
