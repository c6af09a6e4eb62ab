//go:build ignore

// generate_testdata.go creates sample content files for manual testing and
// benchmarking the viewer.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/faq/small.json     (10 questions)
//	tests/testdata/faq/markdown.json  (25 questions, markdown answers)
//	tests/testdata/faq/wide.yaml      (25 questions, CJK text)
//	tests/testdata/faq/large.json     (2000 questions)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/faqview/internal/datasource"
	"github.com/vanderheijden86/faqview/pkg/model"
	"github.com/vanderheijden86/faqview/pkg/testutil"
)

type datasetSpec struct {
	file string
	size int
	cfg  testutil.GeneratorConfig
}

var datasets = []datasetSpec{
	{"small.json", 10, testutil.GeneratorConfig{Seed: 10}},
	{"markdown.json", 25, testutil.GeneratorConfig{Seed: 25, Markdown: true, MaxAnswers: 5}},
	{"wide.yaml", 25, testutil.GeneratorConfig{Seed: 26, WideRunes: true}},
	{"large.json", 2000, testutil.GeneratorConfig{Seed: 2000, MaxAnswers: 6}},
}

func main() {
	outputDir := filepath.Join("tests", "testdata", "faq")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s (%d questions)...\n", ds.file, ds.size)
		questions := testutil.New(ds.cfg).Questions(ds.size)

		data, err := encode(ds.file, questions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.file, err)
			os.Exit(1)
		}

		outputPath := filepath.Join(outputDir, ds.file)
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes)\n", outputPath, len(data))
	}

	fmt.Println("\nDone! Content files created in", outputDir)
}

func encode(name string, questions []model.Question) ([]byte, error) {
	if filepath.Ext(name) == ".yaml" {
		return yaml.Marshal(questions)
	}
	return datasource.EncodeJSON(questions)
}
