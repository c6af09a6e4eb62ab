package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/faqview/pkg/model"
	"github.com/vanderheijden86/faqview/pkg/surface"
)

// AssertQuestionCount verifies the expected number of questions.
func AssertQuestionCount(t *testing.T, questions []model.Question, expected int) {
	t.Helper()
	if len(questions) != expected {
		t.Errorf("expected %d questions, got %d", expected, len(questions))
	}
}

// AssertSameQuestions verifies two question lists match in order.
func AssertSameQuestions(t *testing.T, want, got []model.Question) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d questions, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("question %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

// AssertExpanded verifies that exactly the item at index is open in doc, or
// that nothing is open when index is negative.
func AssertExpanded(t *testing.T, doc *surface.Document, index int) {
	t.Helper()
	open := -1
	count := 0
	for _, b := range doc.Blocks() {
		if b.Divider || !b.Expanded {
			continue
		}
		open = b.Item.Index
		count++
	}
	switch {
	case count > 1:
		t.Errorf("expected at most one open item, got %d", count)
	case index < 0 && count != 0:
		t.Errorf("expected nothing open, item %d is open", open)
	case index >= 0 && open != index:
		t.Errorf("expected item %d open, got %d", index, open)
	}
}

// AssertMarked verifies that exactly the item at index carries the cursor
// highlight, or that none does when index is negative.
func AssertMarked(t *testing.T, doc *surface.Document, index int) {
	t.Helper()
	for _, b := range doc.Blocks() {
		if b.Divider {
			continue
		}
		want := b.Item.Index == index
		if b.Marked != want {
			t.Errorf("item %d marked=%v, want %v", b.Item.Index, b.Marked, want)
		}
	}
}

// TempDir helpers

type contentDoc struct {
	Questions []model.Question `json:"questions" yaml:"questions"`
}

// WriteJSONFile writes questions as a JSON content document under dir and
// returns its path.
func WriteJSONFile(t *testing.T, dir, name string, questions []model.Question) string {
	t.Helper()
	data, err := json.MarshalIndent(contentDoc{Questions: questions}, "", "  ")
	if err != nil {
		t.Fatalf("marshal questions: %v", err)
	}
	return writeFile(t, dir, name, data)
}

// WriteYAMLFile writes questions as a YAML content document under dir and
// returns its path.
func WriteYAMLFile(t *testing.T, dir, name string, questions []model.Question) string {
	t.Helper()
	data, err := yaml.Marshal(contentDoc{Questions: questions})
	if err != nil {
		t.Fatalf("marshal questions: %v", err)
	}
	return writeFile(t, dir, name, data)
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
