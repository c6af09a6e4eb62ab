package datasource

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// JSONFile reads a JSON document from disk.
type JSONFile struct {
	Path string
}

// NewJSONFile returns a source for the JSON file at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path}
}

func (s *JSONFile) String() string { return s.Path }

// FetchQuestions reads and decodes the file.
func (s *JSONFile) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, unavailable(s.Path, err)
	}
	questions, err := DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return questions, nil
}

// DecodeJSON accepts either {"questions": [...]} or a bare array of
// question records.
func DecodeJSON(data []byte) ([]model.Question, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("parsing JSON: empty document")
	}
	if trimmed[0] == '[' {
		var questions []model.Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return questions, nil
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return doc.Questions, nil
}

// EncodeJSON renders questions in the document shape, indented.
func EncodeJSON(questions []model.Question) ([]byte, error) {
	if questions == nil {
		questions = []model.Question{}
	}
	return json.MarshalIndent(Document{Questions: questions}, "", "  ")
}
