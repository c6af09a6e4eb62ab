package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/faqview/pkg/debug"
	"github.com/vanderheijden86/faqview/pkg/model"
)

// maxParallelFetches limits concurrent fetches (file descriptors, sockets).
const maxParallelFetches = 8

// MultiSource fetches several sources in parallel and concatenates their
// questions in declaration order.
type MultiSource struct {
	sources []Source
}

// Multi combines sources. Any failure fails the whole fetch.
func Multi(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

// Sources returns the combined sources in order.
func (m *MultiSource) Sources() []Source {
	return m.sources
}

func (m *MultiSource) String() string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

// FetchQuestions runs every fetch concurrently and joins them before
// returning.
func (m *MultiSource) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	start := time.Now()
	results := make([][]model.Question, len(m.sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)

	for i, src := range m.sources {
		g.Go(func() error {
			questions, err := src.FetchQuestions(ctx)
			if err != nil {
				return fmt.Errorf("loading %s: %w", src, err)
			}
			results[i] = questions
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Question
	for _, r := range results {
		all = append(all, r...)
	}
	debug.LogTiming(fmt.Sprintf("datasource: fetched %d questions from %d sources", len(all), len(m.sources)), time.Since(start))
	return all, nil
}
