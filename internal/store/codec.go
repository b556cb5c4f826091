package store

import (
	_ "embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tgienger/sticky/internal/models"
)

//go:embed tasks.schema.json
var schemaSource string

var taskSchema = jsonschema.MustCompileString("tasks.schema.json", schemaSource)

// Encode renders tasks as a 2-space indented JSON array with a trailing
// newline. A nil slice encodes as an empty array.
func Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a task file. The document must validate against the task
// schema before it is unmarshalled.
func Decode(data []byte) ([]models.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if err := taskSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate tasks: %w", err)
	}

	tasks := []models.Task{}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}
