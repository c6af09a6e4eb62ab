package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/faqview/internal/datasource"
	"github.com/vanderheijden86/faqview/pkg/accordion"
	"github.com/vanderheijden86/faqview/pkg/model"
	"github.com/vanderheijden86/faqview/pkg/testutil"
)

type fakeSource struct {
	mu        sync.Mutex
	questions []model.Question
	err       error
	calls     int
}

func (s *fakeSource) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.Question(nil), s.questions...), nil
}

func (s *fakeSource) String() string { return "fake" }

func makeQuestions(n int) []model.Question {
	return testutil.QuickQuestions(n)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	um, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return um
}

func sendKey(t *testing.T, m Model, r rune) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func sendSpecialKey(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func clickLine(t *testing.T, m Model, line int) Model {
	t.Helper()
	y := line - m.viewport.YOffset + headerHeight
	return update(t, m, tea.MouseMsg{X: 2, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

// newLoadedModel returns a sized model with src's first load applied.
func newLoadedModel(t *testing.T, src *fakeSource, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithClipboard(func(string) error { return nil })}, opts...)
	m := NewModel(src, opts...)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	msg := LoadQuestionsCmd(src, 1, time.Second)()
	return update(t, m, msg)
}

func plainView(m Model) string {
	return ansi.Strip(m.View())
}

func TestModelShowsLoadingUntilQuestionsArrive(t *testing.T) {
	src := &fakeSource{questions: makeQuestions(2)}
	m := NewModel(src)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	if !m.Loading() {
		t.Fatal("expected loading before the first load finishes")
	}
	if !strings.Contains(plainView(m), "Loading questions...") {
		t.Errorf("loading screen missing:\n%s", plainView(m))
	}

	// Keys before content is shown must not reach the accordion.
	m = sendSpecialKey(t, m, tea.KeyDown)
	if m.Controller().State().Loaded() {
		t.Error("accordion should not be loaded yet")
	}

	m = update(t, m, LoadQuestionsCmd(src, 1, time.Second)())
	if m.Loading() {
		t.Fatal("still loading after QuestionsLoadedMsg")
	}
	view := plainView(m)
	for _, want := range []string{"Question 1", "Question 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Answer 1") {
		t.Error("answers must start collapsed")
	}
}

func TestModelKeyboardOpensAndMoves(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(3)})

	m = sendSpecialKey(t, m, tea.KeyDown)
	st := m.Controller().State()
	if st.Cursor() != 0 || st.Expanded() != accordion.None {
		t.Fatalf("after down: cursor=%d expanded=%d", st.Cursor(), st.Expanded())
	}

	m = sendSpecialKey(t, m, tea.KeyEnter)
	if got := m.Controller().State().Expanded(); got != 0 {
		t.Fatalf("enter should open item 0, got %d", got)
	}
	if !strings.Contains(plainView(m), "Answer 1") {
		t.Errorf("answer of open item not shown:\n%s", plainView(m))
	}

	m = sendKey(t, m, 'j')
	st = m.Controller().State()
	if st.Cursor() != 1 || st.Expanded() != accordion.None {
		t.Fatalf("after j: cursor=%d expanded=%d", st.Cursor(), st.Expanded())
	}

	m = sendKey(t, m, 'k')
	m = sendKey(t, m, 'k')
	if got := m.Controller().State().Cursor(); got != 2 {
		t.Errorf("cursor should wrap to the last item, got %d", got)
	}
}

func TestModelUnboundKeyChangesNothing(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(3)})
	m = sendSpecialKey(t, m, tea.KeyDown)
	m = sendSpecialKey(t, m, tea.KeyEnter)

	m = sendKey(t, m, 'x')
	st := m.Controller().State()
	if st.Expanded() != 0 || st.Cursor() != 0 {
		t.Errorf("unbound key changed state: expanded=%d cursor=%d", st.Expanded(), st.Cursor())
	}
}

func TestModelClickOpensOneAtATime(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(3)})

	m = clickLine(t, m, m.list.triggerLine[1])
	if got := m.Controller().State().Expanded(); got != 1 {
		t.Fatalf("click on question 2 should open it, got %d", got)
	}

	m = clickLine(t, m, m.list.triggerLine[2])
	if got := m.Controller().State().Expanded(); got != 2 {
		t.Fatalf("click on question 3 should open it, got %d", got)
	}
	view := plainView(m)
	if strings.Contains(view, "Answer 2") || !strings.Contains(view, "Answer 3") {
		t.Errorf("expected only answer 3 visible:\n%s", view)
	}

	// Re-clicking the open question keeps it open.
	m = clickLine(t, m, m.list.triggerLine[2])
	if got := m.Controller().State().Expanded(); got != 2 {
		t.Errorf("re-click should keep item 2 open, got %d", got)
	}
}

func TestModelClickWithToggleCloses(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(2)}, WithToggle(true))

	m = clickLine(t, m, m.list.triggerLine[0])
	m = clickLine(t, m, m.list.triggerLine[0])
	if got := m.Controller().State().Expanded(); got != accordion.None {
		t.Errorf("second click should close item 0, got %d", got)
	}
}

func TestModelClickOnAnswerCollapses(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(2)})

	m = clickLine(t, m, m.list.triggerLine[0])
	answerLine := m.list.triggerLine[0] + 1
	if m.list.hits[answerLine] != accordion.NoTarget {
		t.Fatalf("line %d should be answer text", answerLine)
	}

	m = clickLine(t, m, answerLine)
	if got := m.Controller().State().Expanded(); got != accordion.None {
		t.Errorf("click on answer text should collapse, got %d", got)
	}
}

func TestModelClickOutsideListIgnored(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(2)})
	m = clickLine(t, m, m.list.triggerLine[0])

	// The header row and rows below the content are not part of the list.
	m = update(t, m, tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 2, Y: 25, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.Controller().State().Expanded(); got != 0 {
		t.Errorf("clicks outside the list changed expansion to %d", got)
	}

	// Releases and motion are ignored too.
	m = update(t, m, tea.MouseMsg{X: 2, Y: headerHeight + m.list.triggerLine[1], Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := m.Controller().State().Expanded(); got != 0 {
		t.Errorf("mouse release changed expansion to %d", got)
	}
}

func TestModelMixedInputStaysInSync(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(3)})

	m = clickLine(t, m, m.list.triggerLine[2])
	m = sendSpecialKey(t, m, tea.KeyDown)
	st := m.Controller().State()
	if st.Expanded() != accordion.None || st.Cursor() != 0 {
		t.Fatalf("after click+down: expanded=%d cursor=%d", st.Expanded(), st.Cursor())
	}

	m = sendSpecialKey(t, m, tea.KeyEnter)
	m = clickLine(t, m, m.list.triggerLine[1])
	st = m.Controller().State()
	if st.Expanded() != 1 || st.Cursor() != 0 {
		t.Errorf("click should not move the cursor: expanded=%d cursor=%d", st.Expanded(), st.Cursor())
	}

	open := 0
	for _, b := range m.Document().Blocks() {
		if b.Expanded {
			open++
		}
	}
	if open != 1 {
		t.Errorf("expected exactly one open block, got %d", open)
	}
}

func TestModelLoadErrorShowsMessageAndRetries(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	m := NewModel(src)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, LoadQuestionsCmd(src, 1, time.Second)())

	if m.LoadErr() == nil {
		t.Fatal("expected load error")
	}
	if !strings.Contains(plainView(m), LoadErrorText) {
		t.Errorf("error text missing:\n%s", plainView(m))
	}

	src.err = nil
	src.questions = makeQuestions(1)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("retry should return a load command")
	}
	if !m.Loading() {
		t.Error("retry after a failed first load should show the loading screen")
	}

	m = update(t, m, LoadQuestionsCmd(src, 2, time.Second)())
	if m.LoadErr() != nil {
		t.Fatalf("unexpected error after retry: %v", m.LoadErr())
	}
	if !strings.Contains(plainView(m), "Question 1") {
		t.Errorf("questions missing after retry:\n%s", plainView(m))
	}
}

func TestModelHTTPErrorDetail(t *testing.T) {
	src := &fakeSource{err: &datasource.DataUnavailableError{Source: "https://faq.example", Status: 503}}
	m := NewModel(src)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, LoadQuestionsCmd(src, 1, time.Second)())

	if !strings.Contains(plainView(m), "returned HTTP 503") {
		t.Errorf("status detail missing:\n%s", plainView(m))
	}
}

func TestModelIgnoresStaleLoad(t *testing.T) {
	src := &fakeSource{questions: makeQuestions(2)}
	m := newLoadedModel(t, src)

	m = update(t, m, QuestionsLoadedMsg{Seq: 0, Items: datasource.ToItems(makeQuestions(5))})
	if got := m.Controller().State().Count(); got != 2 {
		t.Errorf("stale load replaced the list: count=%d", got)
	}
}

func TestModelReloadResetsState(t *testing.T) {
	src := &fakeSource{questions: makeQuestions(2)}
	m := newLoadedModel(t, src)
	m = clickLine(t, m, m.list.triggerLine[1])

	src.questions = makeQuestions(4)
	m = update(t, m, FileChangedMsg{})
	// The old list stays while the reload is in flight.
	if got := m.Controller().State().Expanded(); got != 1 {
		t.Fatalf("state changed before reload finished: expanded=%d", got)
	}

	m = update(t, m, LoadQuestionsCmd(src, m.loadSeq, time.Second)())
	st := m.Controller().State()
	if st.Count() != 4 || st.Expanded() != accordion.None || st.Cursor() != accordion.None {
		t.Errorf("after reload: count=%d expanded=%d cursor=%d", st.Count(), st.Expanded(), st.Cursor())
	}
	if msg, isErr := m.StatusMessage(); isErr || !strings.Contains(msg, "Reloaded 4") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestModelFailedReloadKeepsList(t *testing.T) {
	src := &fakeSource{questions: makeQuestions(2)}
	m := newLoadedModel(t, src)

	src.err = errors.New("gone")
	m = sendKey(t, m, 'r')
	m = update(t, m, LoadQuestionsCmd(src, m.loadSeq, time.Second)())

	if m.LoadErr() != nil {
		t.Error("failed reload should not replace the list with the error screen")
	}
	if msg, isErr := m.StatusMessage(); !isErr || !strings.Contains(msg, "gone") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
	if !strings.Contains(plainView(m), "Question 2") {
		t.Error("previous list should still be shown")
	}
}

func TestModelCopyAnswer(t *testing.T) {
	var copied string
	src := &fakeSource{questions: makeQuestions(2)}
	m := newLoadedModel(t, src, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	m = sendKey(t, m, 'c')
	if msg, isErr := m.StatusMessage(); !isErr || copied != "" {
		t.Errorf("copy with nothing open: status=%q error=%v copied=%q", msg, isErr, copied)
	}

	m = clickLine(t, m, m.list.triggerLine[1])
	m = sendKey(t, m, 'c')
	if want := src.questions[1].Answer; copied != want {
		t.Errorf("copied %q, want %q", copied, want)
	}
	if _, isErr := m.StatusMessage(); isErr {
		t.Error("successful copy reported as error")
	}
	// Copy does not touch the accordion.
	if got := m.Controller().State().Expanded(); got != 1 {
		t.Errorf("copy changed expansion to %d", got)
	}
}

func TestModelCopyError(t *testing.T) {
	src := &fakeSource{questions: makeQuestions(1)}
	m := newLoadedModel(t, src, WithClipboard(func(string) error { return errors.New("no clipboard") }))

	m = clickLine(t, m, m.list.triggerLine[0])
	m = sendKey(t, m, 'c')
	if msg, isErr := m.StatusMessage(); !isErr || !strings.Contains(msg, "no clipboard") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestModelHelpToggle(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(1)})
	short := m.viewport.Height

	m = sendKey(t, m, '?')
	if !m.help.ShowAll {
		t.Fatal("? should expand help")
	}
	if !strings.Contains(plainView(m), "copy answer") {
		t.Errorf("full help missing bindings:\n%s", plainView(m))
	}
	if m.viewport.Height >= short {
		t.Errorf("viewport should shrink for full help: %d >= %d", m.viewport.Height, short)
	}
}

func TestModelQuit(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(1)})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelCursorStaysVisible(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{questions: makeQuestions(30)})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})

	for range 20 {
		m = sendSpecialKey(t, m, tea.KeyDown)
	}
	cur := m.Controller().State().Cursor()
	line := m.list.triggerLine[cur]
	if line < m.viewport.YOffset || line >= m.viewport.YOffset+m.viewport.Height {
		t.Errorf("cursor line %d outside viewport [%d,%d)", line, m.viewport.YOffset, m.viewport.YOffset+m.viewport.Height)
	}

	// Clicking still resolves to the right item after scrolling.
	m = clickLine(t, m, line)
	if got := m.Controller().State().Expanded(); got != cur {
		t.Errorf("click after scroll opened %d, want %d", got, cur)
	}
}

func TestModelEmptyList(t *testing.T) {
	m := newLoadedModel(t, &fakeSource{})
	if !strings.Contains(plainView(m), "No questions yet.") {
		t.Errorf("empty message missing:\n%s", plainView(m))
	}
	m = sendSpecialKey(t, m, tea.KeyDown)
	if got := m.Controller().State().Cursor(); got != accordion.None {
		t.Errorf("cursor moved on an empty list: %d", got)
	}
}
