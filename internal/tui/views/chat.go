// Package views provides TUI view components for the console.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ftorstensson/vibe-console/internal/session"
	"github.com/ftorstensson/vibe-console/internal/tui"
)

// SubmitMsg is sent when the user submits a query.
type SubmitMsg struct {
	Content string
}

// ChatModel is the view model for the transcript screen: a viewport
// over the conversation, a textarea for the next query, and a spinner
// shown while an answer is streaming.
type ChatModel struct {
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	loading  bool
	width    int
	height   int
}

// NewChat creates a ChatModel sized to the given terminal dimensions.
func NewChat(width, height int) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask the agent anything... (Enter to send)"
	ta.CharLimit = 5000
	ta.SetWidth(width - 8)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	// Enter submits; Ctrl+J inserts a newline.
	keyMap := ta.KeyMap
	keyMap.InsertNewline = key.NewBinding(
		key.WithKeys("ctrl+j"),
		key.WithHelp("ctrl+j", "new line"),
	)
	ta.KeyMap = keyMap

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.AgentStyle

	vpWidth, vpHeight := chatDimensions(width, height)
	vp := viewport.New(vpWidth, vpHeight)
	vp.SetContent(formatTranscript(nil))

	return ChatModel{
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		width:    width,
		height:   height,
	}
}

// chatDimensions derives viewport size from the terminal size, leaving
// room for the header, textarea, and footer.
func chatDimensions(width, height int) (int, int) {
	vpHeight := height - 14
	if vpHeight < 5 {
		vpHeight = 5
	}
	vpWidth := width - 8
	if vpWidth < 20 {
		vpWidth = 20
	}
	return vpWidth, vpHeight
}

// Init returns the initial command for the chat view.
func (m ChatModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == tui.KeyEnter && !m.loading {
			content := strings.TrimSpace(m.textarea.Value())
			if content == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, func() tea.Msg {
				return SubmitMsg{Content: content}
			}
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpWidth, vpHeight := chatDimensions(msg.Width, msg.Height)
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(vpWidth)
		return m, nil
	}

	// The textarea only takes input while no answer is streaming.
	if !m.loading {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// SetTranscript replaces the viewport content with the given messages
// and scrolls to the bottom.
func (m ChatModel) SetTranscript(msgs []session.Message) ChatModel {
	m.viewport.SetContent(formatTranscript(msgs))
	m.viewport.GotoBottom()
	return m
}

// StartLoading disables input and starts the streaming spinner.
func (m ChatModel) StartLoading() (ChatModel, tea.Cmd) {
	m.loading = true
	return m, m.spinner.Tick
}

// StopLoading re-enables input once the answer is complete.
func (m ChatModel) StopLoading() ChatModel {
	m.loading = false
	return m
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Vibe Console"))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Waiting for the agent...")
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render(m.textarea.View()))
	} else {
		b.WriteString(m.textarea.View())
	}

	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render("Enter: Send · Ctrl+J: New line · Ctrl+N: New session · Ctrl+C: Quit"))

	content := tui.BoxStyle.
		Width(m.width - 4).
		Render(b.String())

	return content
}

// formatTranscript renders the conversation for the viewport, one
// styled author prefix per message.
func formatTranscript(msgs []session.Message) string {
	if len(msgs) == 0 {
		return tui.DimStyle.Render("No messages yet. Ask the agent something!")
	}

	var b strings.Builder
	for i, msg := range msgs {
		var prefix string
		var style lipgloss.Style

		switch {
		case msg.Role == session.RoleHuman:
			prefix = "You"
			style = tui.HumanStyle
		case msg.Author == session.ErrorAuthor:
			prefix = msg.Author
			style = tui.ErrorStyle
		case msg.Author == session.PendingAuthor:
			prefix = msg.Author
			style = tui.DimStyle
		default:
			prefix = msg.Author
			style = tui.AgentStyle
		}

		b.WriteString(style.Render(prefix + ": "))
		b.WriteString(msg.Content)

		if i < len(msgs)-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}
