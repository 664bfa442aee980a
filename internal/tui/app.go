package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"docuchat/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type uploadDoneMsg struct {
	summary string
	err     error
}

type askDoneMsg struct {
	answer string
	err    error
}

type progressTickMsg struct{}

type revealTickMsg struct{ gen int }

type spinMsg struct{}

type healthMsg struct {
	status app.HealthStatus
	err    error
}

// Model is the bubbletea program for a document chat session. All session
// state lives in app.Session; the model owns only presentation concerns
// and the timer plumbing for the progress ramp and the answer reveal.
type Model struct {
	client  *app.Client
	logger  *app.Logger
	session *app.Session

	cfg     app.Config
	cfgPath string

	theme    Theme
	keys     keyMap
	markdown *MarkdownRenderer

	input  textarea.Model
	chatVP viewport.Model
	bar    progress.Model
	reveal *typewriter

	revealText  string
	pendingFile string

	width  int
	height int
	ready  bool

	spinnerPos int
}

func New(client *app.Client, logger *app.Logger, cfg app.Config, cfgPath, pendingFile string) *Model {
	theme := NewTheme(ThemeName(cfg.Theme))

	ta := textarea.New()
	ta.Placeholder = "Ask about the document, or /open <path> to upload one"
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(70)
	ta.SetHeight(1)
	ta.Prompt = "▍ "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	m := &Model{
		client:      client,
		logger:      logger,
		session:     app.NewSession(),
		cfg:         cfg,
		cfgPath:     cfgPath,
		theme:       theme,
		keys:        defaultKeyMap(),
		markdown:    NewMarkdownRenderer(theme),
		input:       ta,
		chatVP:      viewport.New(70, 12),
		bar:         newProgressBar(theme),
		reveal:      newTypewriter(2),
		pendingFile: pendingFile,
		width:       80,
		height:      24,
	}
	m.refreshChat()
	return m
}

// Session exposes the orchestrator, mostly for tests.
func (m *Model) Session() *app.Session { return m.session }

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.healthCmd()}
	if m.pendingFile != "" {
		if cmd := m.startUpload(m.pendingFile); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.pendingFile = ""
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 6)
		m.chatVP.Width = msg.Width - 4
		m.chatVP.Height = max(6, msg.Height-14)
		m.bar.Width = max(20, msg.Width-20)
		m.ready = true
		m.refreshChat()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.session.Clear()
			m.input.Reset()
			m.refreshChat()
			return m, nil
		case key.Matches(msg, m.keys.NewSession):
			m.newSession()
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.toggleTheme()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			return m, m.handleSubmit()
		}

	case uploadDoneMsg:
		if msg.err != nil {
			m.logger.Error("upload failed", map[string]interface{}{"error": msg.err.Error()})
			m.session.FailUpload(msg.err)
		} else {
			m.session.CompleteUpload(msg.summary)
		}
		m.refreshChat()
		return m, nil

	case askDoneMsg:
		text := msg.answer
		if msg.err != nil {
			m.logger.Error("ask failed", map[string]interface{}{"error": msg.err.Error()})
			text = app.AskFailedFallback
		} else if strings.TrimSpace(text) == "" {
			text = app.NoAnswerFallback
		}
		m.session.ResolveAnswer(text)
		m.revealText = ""
		gen := m.reveal.Start(text)
		m.refreshChat()
		return m, m.revealTick(gen)

	case progressTickMsg:
		if m.session.State() != app.StateUploading {
			return m, nil
		}
		m.session.AdvanceProgress(nextProgress(m.session.Progress()))
		return m, m.progressTick()

	case revealTickMsg:
		prefix, done, ok := m.reveal.Tick(msg.gen)
		if !ok {
			return m, nil
		}
		m.revealText = prefix
		m.refreshChat()
		if done {
			m.session.FinishReveal()
			m.refreshChat()
			return m, nil
		}
		return m, m.revealTick(msg.gen)

	case spinMsg:
		if m.busy() {
			m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
			return m, m.spinCmd()
		}
		return m, nil

	case healthMsg:
		if msg.err != nil {
			m.logger.Warn("backend health check failed", map[string]interface{}{"error": msg.err.Error()})
			m.session.Advise(fmt.Sprintf("Backend at %s is unreachable. Is the server running?", m.client.BaseURL))
			m.refreshChat()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// busy reports whether a request is outstanding and the spinner should run.
func (m *Model) busy() bool {
	switch m.session.State() {
	case app.StateUploading:
		return true
	case app.StateAwaitingAnswer:
		return !m.session.Revealing()
	}
	return false
}

func (m *Model) handleSubmit() tea.Cmd {
	raw := m.input.Value()
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "/") {
		m.input.Reset()
		return m.handleSlash(trimmed)
	}

	q, err := m.session.SubmitQuestion(raw)
	switch {
	case errors.Is(err, app.ErrEmptyQuestion):
		return nil
	case errors.Is(err, app.ErrChatDisabled):
		m.session.Advise("Upload a document first: /open <path>")
		m.refreshChat()
		return nil
	case errors.Is(err, app.ErrRevealRunning):
		m.session.Advise("Hold on, the current answer is still being written.")
		m.refreshChat()
		return nil
	case err != nil:
		return nil
	}

	m.input.Reset()
	m.refreshChat()
	return tea.Batch(m.askCmd(q), m.spinCmd())
}

func (m *Model) handleSlash(line string) tea.Cmd {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/open":
		if len(fields) < 2 {
			m.session.Advise("Usage: /open <path>")
			m.refreshChat()
			return nil
		}
		cmd := m.startUpload(strings.Join(fields[1:], " "))
		m.refreshChat()
		return cmd
	case "/clear":
		m.session.Clear()
		m.input.Reset()
		m.refreshChat()
		return nil
	case "/new":
		m.newSession()
		return nil
	case "/theme":
		m.toggleTheme()
		return nil
	case "/help":
		m.session.Advise(helpLine())
		m.refreshChat()
		return nil
	default:
		m.session.Advise(fmt.Sprintf("Unknown command %q. Try /help.", fields[0]))
		m.refreshChat()
		return nil
	}
}

// startUpload runs the synchronous guards, then kicks off the request and
// the decorative progress ramp.
func (m *Model) startUpload(path string) tea.Cmd {
	if !app.SupportedFile(path) {
		m.session.Advise(app.ErrUnsupportedFile.Error())
		return nil
	}
	err := m.session.BeginUpload(filepath.Base(path))
	switch {
	case errors.Is(err, app.ErrUploadInFlight):
		m.session.Advise("An upload is already in progress; the new file was ignored.")
		return nil
	case errors.Is(err, app.ErrSessionActive):
		m.session.Advise("A document is already loaded. Start over with ctrl+n first.")
		return nil
	case err != nil:
		return nil
	}
	m.logger.Info("upload started", map[string]interface{}{"file": filepath.Base(path)})
	return tea.Batch(m.uploadCmd(path), m.progressTick(), m.spinCmd())
}

func (m *Model) newSession() {
	m.reveal.Stop()
	m.revealText = ""
	m.session.Reset()
	m.input.Reset()
	m.refreshChat()
}

// toggleTheme flips light/dark and persists the preference immediately.
func (m *Model) toggleTheme() {
	name := ThemeName(m.cfg.Theme).Toggle()
	m.cfg.Theme = string(name)
	m.theme = NewTheme(name)
	m.markdown = NewMarkdownRenderer(m.theme)
	m.bar = newProgressBar(m.theme)
	m.refreshChat()
	if m.cfgPath == "" {
		return
	}
	if err := app.SaveConfig(m.cfg, m.cfgPath); err != nil {
		m.logger.Warn("saving theme preference failed", map[string]interface{}{"error": err.Error()})
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.requestTimeout())
		defer cancel()
		summary, err := m.client.Upload(ctx, path)
		return uploadDoneMsg{summary: summary, err: err}
	}
}

func (m *Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.requestTimeout())
		defer cancel()
		answer, err := m.client.Ask(ctx, question)
		return askDoneMsg{answer: answer, err: err}
	}
}

func (m *Model) healthCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status, err := m.client.Health(ctx)
		return healthMsg{status: status, err: err}
	}
}

func (m *Model) requestTimeout() time.Duration {
	return time.Duration(m.cfg.RequestTimeoutSec) * time.Second
}

func (m *Model) progressTick() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.ProgressTickMs)*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

func (m *Model) revealTick(gen int) tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.RevealTickMs)*time.Millisecond, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return spinMsg{}
	})
}

func (m *Model) refreshChat() {
	m.chatVP.SetContent(m.renderMessages())
	m.chatVP.GotoBottom()
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTopBar())
	b.WriteString("\n")
	b.WriteString(m.renderSummaryPane())
	b.WriteString("\n")
	b.WriteString(m.theme.Pane.Width(m.chatVP.Width).Render(m.chatVP.View()))
	b.WriteString("\n")

	if m.session.State() == app.StateUploading {
		b.WriteString(fmt.Sprintf(" %s processing %s  %s\n",
			m.theme.Spinner.Render(spinnerFrames[m.spinnerPos]),
			m.session.DocumentName(),
			m.bar.ViewAs(m.session.Progress()/100)))
	} else if m.busy() {
		b.WriteString(fmt.Sprintf(" %s thinking...\n", m.theme.Spinner.Render(spinnerFrames[m.spinnerPos])))
	}

	b.WriteString(m.theme.InputBox.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render(helpLine()))
	return b.String()
}

func (m *Model) renderTopBar() string {
	title := m.theme.TopBarTitle.Render("docuchat")
	badge := m.theme.TopBarBadge.Render(m.session.State().String())
	doc := ""
	if name := m.session.DocumentName(); name != "" {
		doc = m.theme.TopBar.Render(" • " + name)
	}
	return title + "  " + badge + doc
}

func (m *Model) renderSummaryPane() string {
	title := m.theme.PaneTitle.Render("summary")
	body := m.theme.TopBar.Render("No document loaded.")
	if s := m.session.Summary(); s != "" {
		body = m.markdown.Render(s)
	}
	return m.theme.Pane.Width(m.chatVP.Width).Render(title + "\n" + body)
}

// renderMessages renders the log. While a reveal is running, the final
// assistant message shows the typewriter prefix instead of its full text;
// once the reveal completes it is rendered as markdown.
func (m *Model) renderMessages() string {
	msgs := m.session.Messages()
	var b strings.Builder
	for i, msg := range msgs {
		var label string
		var style lipgloss.Style
		switch msg.Role {
		case app.RoleUser:
			label, style = "you", m.theme.RoleYou
		case app.RoleAssistant:
			label, style = "docuai", m.theme.RoleAI
		case app.RoleError:
			label, style = "error", m.theme.RoleErr
		default:
			label, style = "system", m.theme.RoleSys
		}

		b.WriteString(style.Render(label))
		b.WriteString("  ")
		b.WriteString(m.theme.TopBar.Render(msg.Time.Format("15:04:05")))
		b.WriteString("\n")

		text := msg.Text
		if msg.Role == app.RoleAssistant && i == len(msgs)-1 && m.session.Revealing() {
			text = m.revealText + "▌"
		} else if msg.Role == app.RoleAssistant {
			text = m.markdown.Render(msg.Text)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
