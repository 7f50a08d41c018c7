package restapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const schemaBase = "https://tasktrack.local/schema/"

// validator checks response bodies against the task schemas.
type validator struct {
	task     *jsonschema.Schema
	taskList *jsonschema.Schema
}

func newValidator() (*validator, error) {
	compiler := jsonschema.NewCompiler()
	for _, name := range []string{"task.json", "task_list.json"} {
		data, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}
	task, err := compiler.Compile(schemaBase + "task.json")
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	taskList, err := compiler.Compile(schemaBase + "task_list.json")
	if err != nil {
		return nil, fmt.Errorf("compile task list schema: %w", err)
	}
	return &validator{task: task, taskList: taskList}, nil
}

func validate(schema *jsonschema.Schema, body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
