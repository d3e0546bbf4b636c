package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TopicInputView ViewState = iota
	DepthSelectView
	ProgressView
	ArticleView
	ResultListView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	store    *session.Store
	poller   *session.Poller
	accessor *session.ResultAccessor
	events   <-chan session.ProgressEvent

	width  int
	height int

	topicInput textinput.Model
	depthList  list.Model
	resultList list.Model

	topic    string
	depth    models.Depth
	progress session.ProgressEvent
	article  *models.ResearchResult
	err      error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The events channel must be the one the poller was built with; the model
// drains it one observation per bubbletea command.
func NewModel(ctx context.Context, store *session.Store, poller *session.Poller, accessor *session.ResultAccessor, events <-chan session.ProgressEvent) *Model {
	input := textinput.New()
	input.Placeholder = "quantum computing"
	input.Focus()
	input.CharLimit = 200
	input.Width = 50

	depths := []list.Item{
		depthItem{depth: models.DepthBasic},
		depthItem{depth: models.DepthStandard},
		depthItem{depth: models.DepthDeep},
	}
	depthList := list.New(depths, list.NewDefaultDelegate(), 0, 0)
	depthList.Title = "Research Depth"
	depthList.SetShowStatusBar(false)
	depthList.SetFilteringEnabled(false)

	return &Model{
		ctx:        ctx,
		view:       TopicInputView,
		store:      store,
		poller:     poller,
		accessor:   accessor,
		events:     events,
		topicInput: input,
		depthList:  depthList,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init loads the existing results so the listing view is ready immediately.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadResults())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.depthList.SetSize(msg.Width-4, msg.Height-8)
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TopicInputView:
			return m.handleTopicInputKeys(msg)
		case DepthSelectView:
			return m.handleDepthSelectKeys(msg)
		case ProgressView:
			return m.handleProgressKeys(msg)
		case ArticleView:
			return m.handleArticleKeys(msg)
		case ResultListView:
			return m.handleResultListKeys(msg)
		}

	case sessionStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = TopicInputView
			return m, nil
		}
		m.err = nil
		m.progress = session.ProgressEvent{SessionID: msg.session.ID, Status: msg.session.Status}
		m.poller.Start(m.ctx, msg.session.ID)
		m.view = ProgressView
		return m, m.waitForEvent()

	case pollEventMsg:
		event := session.ProgressEvent(msg)
		m.progress = event
		switch event.Kind {
		case session.EventTerminal:
			if event.Status == models.StatusCompleted {
				return m, m.fetchArticle(event.SessionID)
			}
			m.err = fmt.Errorf("research failed: %s", event.Message)
			return m, nil
		case session.EventStopped:
			m.err = fmt.Errorf("stopped polling: %s", event.Message)
			return m, nil
		default:
			return m, m.waitForEvent()
		}

	case pollClosedMsg:
		return m, nil

	case resultsLoadedMsg:
		items := make([]list.Item, len(msg.summaries))
		for i, summary := range msg.summaries {
			items[i] = resultItem{summary: summary}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = "Completed Research"
		m.resultList.SetSize(m.width-4, m.height-8)
		return m, nil

	case resultFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = TopicInputView
			return m, nil
		}
		m.article = msg.result
		m.view = ArticleView
		return m, m.loadResults()
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case TopicInputView:
		return m.renderTopicInput()
	case DepthSelectView:
		return m.renderDepthSelect()
	case ProgressView:
		return m.renderProgress()
	case ArticleView:
		return m.renderArticle()
	case ResultListView:
		return m.renderResultList()
	default:
		return ""
	}
}

func (m *Model) handleTopicInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.view = ResultListView
		return m, m.loadResults()
	case "enter":
		topic := strings.TrimSpace(m.topicInput.Value())
		if topic == "" {
			return m, nil
		}
		m.topic = topic
		m.view = DepthSelectView
		return m, nil
	}

	var cmd tea.Cmd
	m.topicInput, cmd = m.topicInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDepthSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = TopicInputView
		return m, nil
	case "enter":
		if selected, ok := m.depthList.SelectedItem().(depthItem); ok {
			m.depth = selected.depth
			return m, m.startResearch()
		}
	}

	var cmd tea.Cmd
	m.depthList, cmd = m.depthList.Update(msg)
	return m, cmd
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.poller.Cancel()
		return m, tea.Quit
	case "esc":
		m.poller.Cancel()
		m.view = TopicInputView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleArticleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.reset()
		return m, nil
	case "tab":
		m.view = ResultListView
		return m, m.loadResults()
	}
	return m, nil
}

func (m *Model) handleResultListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = TopicInputView
		return m, nil
	case "enter":
		if selected, ok := m.resultList.SelectedItem().(resultItem); ok {
			return m, m.fetchArticle(selected.summary.ID)
		}
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TopicInputView:
		m.topicInput, cmd = m.topicInput.Update(msg)
	case DepthSelectView:
		m.depthList, cmd = m.depthList.Update(msg)
	case ResultListView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

// reset returns the model to a fresh topic prompt.
func (m *Model) reset() {
	m.view = TopicInputView
	m.topic = ""
	m.article = nil
	m.err = nil
	m.progress = session.ProgressEvent{}
	m.topicInput.SetValue("")
	m.topicInput.Focus()
}

func (m *Model) startResearch() tea.Cmd {
	return func() tea.Msg {
		started, err := m.store.StartSession(m.ctx, m.topic, m.depth)
		return sessionStartedMsg{session: started, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return pollClosedMsg{}
		}
		return pollEventMsg(event)
	}
}

func (m *Model) loadResults() tea.Cmd {
	return func() tea.Msg {
		m.store.LoadResults(m.ctx)
		return resultsLoadedMsg{summaries: m.store.Results()}
	}
}

func (m *Model) fetchArticle(resultID string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.accessor.FetchResult(m.ctx, resultID)
		return resultFetchedMsg{result: result, err: err}
	}
}

func (m *Model) renderTopicInput() string {
	title := styles.title.Render("What should be researched?")

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("\n%v\n", m.err))
	}

	enterKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue"))
	helpView := m.help.ShortHelpView([]key.Binding{enterKey, m.keys.results, m.keys.quit})

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, m.topicInput.View(), errLine, helpView)
}

func (m *Model) renderDepthSelect() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.depthList.View(), helpView)
}

func (m *Model) renderProgress() string {
	title := styles.title.Render(fmt.Sprintf("Researching: %s", m.topic))

	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("%v", m.err))
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
	}

	bar := renderBar(m.progress.Progress, 30)
	status := string(m.progress.Status)
	if status == "" {
		status = "starting"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s %3d%%  %s\n\n%s", title, bar, m.progress.Progress, status, helpView)
}

func (m *Model) renderArticle() string {
	if m.article == nil {
		return styles.err.Render("No article available\n\nPress r to start over, q to quit")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(m.article.Topic))
	b.WriteString("\n")
	if m.article.Summary != "" {
		b.WriteString(m.article.Summary)
		b.WriteString("\n\n")
	}

	for _, section := range m.article.Sections {
		b.WriteString(styles.ok.Render(section.Title))
		b.WriteString("\n")
		b.WriteString(section.Content)
		b.WriteString("\n\n")
	}

	if len(m.article.References) > 0 {
		b.WriteString(styles.warn.Render("References"))
		b.WriteString("\n")
		for i, ref := range m.article.References {
			b.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, ref.Title, ref.URL))
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.results, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func (m *Model) renderResultList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.resultList.View(), helpView)
}

// renderBar draws a fixed-width progress bar for the given percentage.
func renderBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return fmt.Sprintf("[%s%s]", strings.Repeat("█", filled), strings.Repeat("░", width-filled))
}
