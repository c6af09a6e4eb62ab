// Package ui is the terminal front-end of faqview: a Bubble Tea model that
// loads questions, paints them through the accordion controller and maps
// mouse clicks and key presses onto accordion events.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/faqview/internal/datasource"
	"github.com/vanderheijden86/faqview/pkg/accordion"
	"github.com/vanderheijden86/faqview/pkg/debug"
	"github.com/vanderheijden86/faqview/pkg/metrics"
	"github.com/vanderheijden86/faqview/pkg/model"
	"github.com/vanderheijden86/faqview/pkg/surface"
	"github.com/vanderheijden86/faqview/pkg/watcher"
)

// LoadErrorText is shown instead of the list when content cannot be loaded.
const LoadErrorText = "An unexpected error occurred while trying to get the data."

// DefaultLoadTimeout bounds one content load.
const DefaultLoadTimeout = 30 * time.Second

const (
	headerHeight = 1
	defaultWidth = 80
	defaultRows  = 24
)

// QuestionsLoadedMsg carries a finished load.
type QuestionsLoadedMsg struct {
	Seq      int
	Items    []model.Item
	Duration time.Duration
}

// LoadErrorMsg carries a failed load.
type LoadErrorMsg struct {
	Seq int
	Err error
}

// FileChangedMsg is sent when a watched content file changes on disk.
type FileChangedMsg struct{}

// LoadQuestionsCmd fetches src in the background. seq tags the result so a
// stale load finishing late is ignored.
func LoadQuestionsCmd(src datasource.Source, seq int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		defer metrics.Timer(metrics.SourceFetch)()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		questions, err := src.FetchQuestions(ctx)
		if err != nil {
			debug.Log("ui: load %d from %s failed: %v", seq, src, err)
			return LoadErrorMsg{Seq: seq, Err: err}
		}
		return QuestionsLoadedMsg{
			Seq:      seq,
			Items:    datasource.ToItems(questions),
			Duration: time.Since(start),
		}
	}
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Option configures a Model.
type Option func(*Model)

// WithToggle lets a click on the open question close it.
func WithToggle(on bool) Option {
	return func(m *Model) { m.toggle = on }
}

// WithWatcher reloads whenever w reports a change. The caller starts and
// stops w.
func WithWatcher(w *watcher.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithGlyphs sets the icon strings.
func WithGlyphs(g Glyphs) Option {
	return func(m *Model) { m.glyphs = g }
}

// WithMaxWidth caps the list width; 0 uses the full terminal.
func WithMaxWidth(w int) Option {
	return func(m *Model) { m.maxWidth = w }
}

// WithMarkdown switches answer rendering between glamour and plain wrap.
// style is a glamour standard style name; "" auto-detects.
func WithMarkdown(on bool, style string) Option {
	return func(m *Model) {
		if on {
			m.answers = NewMarkdownRenderer(style).Render
		} else {
			m.answers = PlainAnswers
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copyFn = write }
}

// WithTheme replaces the default theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithLoadTimeout bounds each load.
func WithLoadTimeout(d time.Duration) Option {
	return func(m *Model) { m.loadTimeout = d }
}

// Model is the Bubble Tea model of the accordion view.
type Model struct {
	src  datasource.Source
	doc  *surface.Document
	ctrl *accordion.Controller

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	theme    Theme
	glyphs   Glyphs
	answers  AnswerRenderer
	watcher  *watcher.Watcher
	copyFn   func(string) error

	toggle      bool
	maxWidth    int
	loadTimeout time.Duration

	width, height int

	loading   bool // first load in flight; nothing is drawn yet
	reloading bool // later load in flight; the old list stays usable
	loaded    bool // at least one load succeeded
	loadSeq   int
	loadErr   error

	list listView

	statusMsg     string
	statusIsError bool
}

// NewModel returns a model reading from src. Nothing is fetched until Init.
func NewModel(src datasource.Source, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)

	m := Model{
		src:         src,
		doc:         surface.NewDocument(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		viewport:    viewport.New(defaultWidth, defaultRows-headerHeight-1),
		theme:       DefaultTheme(lipgloss.DefaultRenderer()),
		glyphs:      DefaultGlyphs,
		answers:     PlainAnswers,
		copyFn:      clipboard.WriteAll,
		maxWidth:    100,
		loadTimeout: DefaultLoadTimeout,
		width:       defaultWidth,
		height:      defaultRows,
		loading:     true,
		loadSeq:     1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.ctrl = accordion.NewController(m.doc, accordion.WithToggle(m.toggle))
	m.layout()
	return m
}

// Init starts the spinner, the first load and the file watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		LoadQuestionsCmd(m.src, m.loadSeq, m.loadTimeout),
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Controller exposes the accordion controller, for tests and export.
func (m Model) Controller() *accordion.Controller { return m.ctrl }

// Document exposes the painted surface.
func (m Model) Document() *surface.Document { return m.doc }

// Loading reports whether the first load is still in flight.
func (m Model) Loading() bool { return m.loading }

// LoadErr returns the last load failure, if the list is not shown.
func (m Model) LoadErr() error { return m.loadErr }

// StatusMessage returns the footer message and whether it is an error.
func (m Model) StatusMessage() (string, bool) { return m.statusMsg, m.statusIsError }

func (m Model) listWidth() int {
	w := m.width
	if m.maxWidth > 0 && w > m.maxWidth {
		w = m.maxWidth
	}
	return w
}

func (m Model) footerView() string {
	if m.statusMsg != "" {
		return RenderStatusLine(m.statusMsg, m.statusIsError, m.width)
	}
	return m.help.View(m.keys)
}

// layout sizes the viewport to what the header and footer leave.
func (m *Model) layout() {
	m.help.Width = m.width
	bodyHeight := m.height - headerHeight - lipgloss.Height(m.footerView())
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.viewport.Width = m.listWidth()
	m.viewport.Height = bodyHeight
	m.refresh()
}

// refresh re-renders the list from the document.
func (m *Model) refresh() {
	if !m.loaded {
		m.list = listView{}
		m.viewport.SetContent("")
		return
	}
	defer metrics.Timer(metrics.ListRender)()
	m.list = renderList(m.doc.Blocks(), m.listWidth(), m.theme, m.glyphs, m.answers)
	m.viewport.SetContent(m.list.content())
}

// ensureCursorVisible scrolls so the cursor's trigger line is on screen.
func (m *Model) ensureCursorVisible() {
	cur := m.ctrl.State().Cursor()
	if cur == accordion.None || cur >= len(m.list.triggerLine) {
		return
	}
	line := m.list.triggerLine[cur]
	end := line
	if exp := m.ctrl.State().Expanded(); exp == cur && exp < len(m.list.panelEnd) {
		end = m.list.panelEnd[exp]
	}
	top, height := m.viewport.YOffset, m.viewport.Height
	switch {
	case line < top:
		m.viewport.SetYOffset(line)
	case end >= top+height:
		// Show as much of the answer as fits while keeping the question on screen.
		m.viewport.SetYOffset(min(line, end-height+1))
	}
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
	m.layout()
}

func (m *Model) clearStatus() {
	if m.statusMsg == "" {
		return
	}
	m.setStatus("", false)
}

// reload starts a fresh load. The current list stays interactive until the
// result arrives; then state is reset.
func (m *Model) reload() tea.Cmd {
	m.loadSeq++
	if m.loaded {
		m.reloading = true
	} else {
		m.loading = true
		m.loadErr = nil
	}
	debug.Log("ui: reload %d", m.loadSeq)
	return tea.Batch(m.spinner.Tick, LoadQuestionsCmd(m.src, m.loadSeq, m.loadTimeout))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.ensureCursorVisible()

	case spinner.TickMsg:
		if m.loading || m.reloading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case QuestionsLoadedMsg:
		if msg.Seq != m.loadSeq {
			return m, nil
		}
		wasLoaded := m.loaded
		m.loading, m.reloading = false, false
		if err := m.ctrl.Load(msg.Items); err != nil {
			m.loadErr = err
			m.loaded = false
			m.setStatus(fmt.Sprintf("Render error: %v", err), true)
			return m, nil
		}
		m.loadErr = nil
		m.loaded = true
		m.viewport.GotoTop()
		debug.LogTiming(fmt.Sprintf("ui: load %d (%d questions)", msg.Seq, len(msg.Items)), msg.Duration)
		if wasLoaded {
			m.setStatus(fmt.Sprintf("Reloaded %d questions", len(msg.Items)), false)
		} else {
			m.layout()
		}

	case LoadErrorMsg:
		if msg.Seq != m.loadSeq {
			return m, nil
		}
		m.loading, m.reloading = false, false
		if m.loaded {
			// Keep the previous list; report in the footer.
			m.setStatus(fmt.Sprintf("Reload failed: %v", msg.Err), true)
			return m, nil
		}
		m.loadErr = msg.Err
		m.layout()

	case FileChangedMsg:
		cmds = append(cmds, m.reload())
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.clearStatus()
		return m, m.reload()
	}

	// No input reaches the accordion before content is shown.
	if !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copyAnswer()
		return m, nil
	}

	k := accordion.KeyOther
	switch {
	case key.Matches(msg, m.keys.Up):
		k = accordion.KeyUp
	case key.Matches(msg, m.keys.Down):
		k = accordion.KeyDown
	case key.Matches(msg, m.keys.Confirm):
		k = accordion.KeyEnter
	}
	m.dispatch(accordion.KeyPress(k))
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.loaded {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.viewport.SetYOffset(m.viewport.YOffset - 1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.viewport.SetYOffset(m.viewport.YOffset + 1)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	target, inside := m.hitTest(msg.X, msg.Y)
	if !inside {
		return m, nil
	}
	m.dispatch(accordion.Click(target))
	return m, nil
}

// hitTest maps a screen cell to a trigger index. inside is false when the
// cell is not part of the drawn list at all.
func (m Model) hitTest(x, y int) (target int, inside bool) {
	row := y - headerHeight
	if row < 0 || row >= m.viewport.Height || x < 0 || x >= m.listWidth() {
		return accordion.NoTarget, false
	}
	line := m.viewport.YOffset + row
	if line >= len(m.list.hits) {
		return accordion.NoTarget, false
	}
	return m.list.hits[line], true
}

func (m *Model) dispatch(ev accordion.Event) {
	if _, err := m.ctrl.Dispatch(ev); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.clearStatus()
	m.refresh()
	m.ensureCursorVisible()
}

func (m *Model) copyAnswer() {
	item, ok := m.ctrl.ExpandedItem()
	if !ok {
		m.setStatus("Open a question first", true)
		return
	}
	if err := m.copyFn(item.Answer); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied answer to %q", truncate(item.Question, 40)), false)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("Frequently asked questions")
	var info string
	switch {
	case m.reloading:
		info = m.spinner.View() + " reloading"
	case m.loaded:
		info = fmt.Sprintf("%d questions · %s", m.ctrl.State().Count(), m.src)
	}
	info = m.theme.Hint.Render(" " + truncate(info, max(m.width-lipgloss.Width(title)-1, 0)))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, info)
}

func (m Model) renderLoadingScreen() string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	lines := []string{
		m.spinner.View(),
		"",
		titleStyle.Render("Loading questions..."),
	}
	if m.src != nil {
		lines = append(lines, "", subStyle.Render(truncate(m.src.String(), max(m.width-4, 1))))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderErrorScreen() string {
	detail := m.loadErr.Error()
	var dataErr *datasource.DataUnavailableError
	if errors.As(m.loadErr, &dataErr) && dataErr.Status != 0 {
		detail = fmt.Sprintf("%s returned HTTP %d", dataErr.Source, dataErr.Status)
	}
	lines := []string{
		m.theme.Error.Render(LoadErrorText),
		"",
		m.theme.Hint.Render(truncate(detail, max(m.width-4, 1))),
		"",
		m.theme.Hint.Render("press r to retry, q to quit"),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderEmpty() string {
	msg := m.theme.Hint.Render("No questions yet.")
	return lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, msg)
}

func (m Model) View() string {
	var body string
	switch {
	case m.loading:
		body = m.renderLoadingScreen()
	case m.loadErr != nil:
		body = m.renderErrorScreen()
	case m.ctrl.State().Count() == 0:
		body = m.renderEmpty()
	default:
		body = m.viewport.View()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}
