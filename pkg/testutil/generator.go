// Package testutil provides question fixtures and assertions shared by tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// GeneratorConfig controls question generation.
type GeneratorConfig struct {
	Seed       int64  // Random seed for determinism (0 = use current time)
	Prefix     string // Question prefix (default: "Question")
	Markdown   bool   // Answers use emphasis, lists and code
	WideRunes  bool   // Mix CJK text into questions
	MaxAnswers int    // Upper bound on answer sentences (default: 3)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42, // Deterministic
		Prefix:     "Question",
		MaxAnswers: 3,
	}
}

// Generator creates question fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "Question"
	}
	if cfg.MaxAnswers <= 0 {
		cfg.MaxAnswers = 3
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var sampleSentences = []string{
	"The viewer reads questions from local files or a URL.",
	"Only one answer is open at a time.",
	"Arrow keys move the highlight without opening anything.",
	"Press enter to open the highlighted question.",
	"Content is reloaded when the file changes on disk.",
	"Answers longer than the terminal are wrapped.",
	"Mouse clicks on a question open it directly.",
}

var wideFragments = []string{"日本語", "中文问题", "한국어"}

// Questions returns n questions. Question i (0-based) always starts with
// "<Prefix> <i+1>" so tests can find it in rendered output.
func (g *Generator) Questions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		q := fmt.Sprintf("%s %d", g.cfg.Prefix, i+1)
		if g.cfg.WideRunes {
			q += " " + wideFragments[g.rng.Intn(len(wideFragments))]
		}
		qs[i] = model.Question{
			Question: q + "?",
			Answer:   g.answer(i),
		}
	}
	return qs
}

func (g *Generator) answer(i int) string {
	count := g.rng.Intn(g.cfg.MaxAnswers) + 1
	parts := make([]string, 0, count+1)
	parts = append(parts, fmt.Sprintf("Answer %d.", i+1))
	for j := 0; j < count; j++ {
		parts = append(parts, sampleSentences[g.rng.Intn(len(sampleSentences))])
	}
	if !g.cfg.Markdown {
		return strings.Join(parts, " ")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", parts[0])
	for _, p := range parts[1:] {
		fmt.Fprintf(&sb, "- %s\n", p)
	}
	sb.WriteString("\nRun `faqview -help` for more.")
	return sb.String()
}

// Items converts generated questions to indexed items.
func (g *Generator) Items(n int) []model.Item {
	return model.Items(g.Questions(n))
}

// ============================================================================
// Convenience Functions
// ============================================================================

// QuickQuestions creates n plain questions with default settings.
func QuickQuestions(n int) []model.Question {
	return NewDefault().Questions(n)
}

// QuickItems creates n plain items with default settings.
func QuickItems(n int) []model.Item {
	return NewDefault().Items(n)
}

// Empty returns an empty question slice for edge case testing.
func Empty() []model.Question {
	return []model.Question{}
}
