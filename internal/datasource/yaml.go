package datasource

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// YAMLFile reads a YAML document from disk.
type YAMLFile struct {
	Path string
}

// NewYAMLFile returns a source for the YAML file at path.
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{Path: path}
}

func (s *YAMLFile) String() string { return s.Path }

// FetchQuestions reads and decodes the file.
func (s *YAMLFile) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, unavailable(s.Path, err)
	}
	questions, err := DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return questions, nil
}

// DecodeYAML accepts either a mapping with a questions key or a top-level
// sequence of question records.
func DecodeYAML(data []byte) ([]model.Question, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("parsing YAML: empty document")
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == yaml.SequenceNode {
		var questions []model.Question
		if err := node.Decode(&questions); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		return questions, nil
	}
	var doc Document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return doc.Questions, nil
}
