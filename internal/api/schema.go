package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSchema describes the question payload the server emits from
// /start and /submit. Option slots may be absent, so options allows any
// subset of single-letter keys.
var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{
			"type": []any{"string", "integer"},
		},
		"question_text": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"options": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type": []any{"string", "null"},
			},
		},
		"correct_answer": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"difficulty_level": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 4,
		},
	},
	"required": []any{"question_text", "options", "correct_answer", "difficulty_level"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledQuestionSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value, not Go maps with
		// typed numbers. Round-trip through encoding/json first.
		data, err := json.Marshal(questionSchema)
		if err != nil {
			compileErr = err
			return
		}
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = err
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// decodeQuestion turns a raw question payload into a Question. A null or
// absent payload and the server's {"error": ...} marker both decode
// successfully; only malformed question objects are rejected.
func decodeQuestion(raw json.RawMessage) (*Question, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	// The error marker short-circuits validation: it is a legal payload
	// signaling the session cannot continue.
	var marker struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &marker); err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}
	if marker.Error != "" {
		return &Question{Err: marker.Error}, nil
	}

	schema, err := compiledQuestionSchema()
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &APIError{Status: 200, Detail: fmt.Sprintf("malformed question payload: %v", err)}
	}

	var q struct {
		ID              json.Number        `json:"id"`
		Text            string             `json:"question_text"`
		Options         map[string]*string `json:"options"`
		CorrectAnswer   string             `json:"correct_answer"`
		DifficultyLevel int                `json:"difficulty_level"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&q); err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}

	// Drop null and empty option slots so the UI only renders present
	// choices.
	opts := make(map[string]string, len(q.Options))
	for k, v := range q.Options {
		if v != nil && *v != "" {
			opts[k] = *v
		}
	}

	return &Question{
		ID:              q.ID.String(),
		Text:            q.Text,
		Options:         opts,
		CorrectAnswer:   q.CorrectAnswer,
		DifficultyLevel: q.DifficultyLevel,
	}, nil
}
