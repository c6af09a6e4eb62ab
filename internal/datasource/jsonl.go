package datasource

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/faqview/pkg/debug"
	"github.com/vanderheijden86/faqview/pkg/model"
)

// DefaultMaxLineSize bounds a single JSONL record.
const DefaultMaxLineSize = 1024 * 1024

// JSONLFile reads one question record per line. Malformed or blank-question
// lines are skipped with a warning so one bad edit doesn't hide the rest.
type JSONLFile struct {
	Path string
	// Warn receives skipped-line messages; defaults to debug.Log.
	Warn func(msg string)
}

// NewJSONLFile returns a source for the JSON Lines file at path.
func NewJSONLFile(path string) *JSONLFile {
	return &JSONLFile{Path: path}
}

func (s *JSONLFile) String() string { return s.Path }

// FetchQuestions reads and decodes the file.
func (s *JSONLFile) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, unavailable(s.Path, err)
	}
	defer f.Close()

	questions, err := ParseJSONL(f, DefaultMaxLineSize, s.Warn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return questions, nil
}

// ParseJSONL decodes JSON Lines content. Lines longer than maxLine bytes are
// skipped. A UTF-8 BOM on the first line is ignored.
func ParseJSONL(r io.Reader, maxLine int, warn func(string)) ([]model.Question, error) {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineSize
	}
	if warn == nil {
		warn = func(msg string) { debug.Log("jsonl: %s", msg) }
	}

	reader := bufio.NewReaderSize(r, maxLine)
	var questions []model.Question
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxLine))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("skipping long line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = bytes.TrimPrefix(line, []byte{0xEF, 0xBB, 0xBF})
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var q model.Question
		if err := json.Unmarshal(line, &q); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		if strings.TrimSpace(q.Question) == "" {
			warn(fmt.Sprintf("skipping line %d: empty question", lineNum))
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}
