package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// DefaultHTTPTimeout bounds a single fetch.
const DefaultHTTPTimeout = 15 * time.Second

// maxBodyBytes caps the response size read from a remote source.
const maxBodyBytes = 8 << 20

// HTTPSource fetches a JSON or YAML document over HTTP(S).
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource returns a source for url with the default client.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

func (s *HTTPSource) String() string { return s.URL }

// FetchQuestions issues a GET and decodes the body. A non-2xx status is a
// DataUnavailableError carrying the status code.
func (s *HTTPSource) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, unavailable(s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DataUnavailableError{Source: s.URL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, unavailable(s.URL, fmt.Errorf("reading body: %w", err))
	}

	var questions []model.Question
	if isYAML(resp.Header.Get("Content-Type"), s.URL) {
		questions, err = DecodeYAML(body)
	} else {
		questions, err = DecodeJSON(body)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.URL, err)
	}
	return questions, nil
}

func isYAML(contentType, url string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") {
		return true
	}
	if strings.Contains(ct, "json") {
		return false
	}
	u := strings.ToLower(url)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.HasSuffix(u, ".yaml") || strings.HasSuffix(u, ".yml")
}
