// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"lexbot/internal/config"
	"lexbot/internal/dialogue"
	"lexbot/internal/engine"
)

// chatStyles groups the lipgloss styles of the chat surface.
type chatStyles struct {
	header    lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	prompt    lipgloss.Style
	spinner   lipgloss.Style
	errText   lipgloss.Style
	footer    lipgloss.Style
}

func defaultChatStyles() chatStyles {
	return chatStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		spinner:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		footer:    lipgloss.NewStyle().Faint(true),
	}
}

// chatModel is the model for the interactive chat interface.
type chatModel struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    chatStyles
	renderer  *glamour.TermRenderer

	eng       *engine.Engine
	isLoading bool
	err       error
	width     int
	height    int
	ready     bool
}

type (
	responseMsg string
	errorMsg    error
)

// initChat initializes the interactive chat model.
func initChat(eng *engine.Engine) chatModel {
	styles := defaultChatStyles()

	ti := textinput.New()
	ti.Placeholder = "Escriba su mensaje... (Enter para enviar, Ctrl+C para salir)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 1024
	ti.Width = 80
	ti.PromptStyle = styles.prompt

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	return chatModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    styles,
		renderer:  renderer,
		eng:       eng,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case responseMsg:
		m.isLoading = false
		m.err = nil
		m.refreshViewport()
		m.viewport.GotoBottom()

	case errorMsg:
		m.isLoading = false
		m.err = msg
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// handleSubmit sends the typed message through the engine.
func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textinput.Value())
	if text == "" {
		return m, nil
	}
	m.textinput.Reset()
	m.isLoading = true

	eng := m.eng
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		reply, err := eng.ProcessMessage(ctx, text)
		if err != nil {
			return errorMsg(err)
		}
		return responseMsg(reply)
	})
}

// refreshViewport re-renders the session history into the viewport.
func (m *chatModel) refreshViewport() {
	var b strings.Builder
	for _, turn := range m.eng.History() {
		switch turn.Role {
		case "user":
			b.WriteString(m.styles.user.Render("Usted: ") + turn.Text + "\n")
		default:
			content := turn.Text
			if m.renderer != nil {
				if rendered, err := m.renderer.Render(turn.Text); err == nil {
					content = strings.TrimSpace(rendered)
				}
			}
			b.WriteString(m.styles.assistant.Render("lexbot: ") + content + "\n")
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m chatModel) View() string {
	if !m.ready {
		return "Iniciando..."
	}

	var b strings.Builder
	b.WriteString(m.styles.header.Render("lexbot — asistente del estudio jurídico"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.isLoading {
		b.WriteString(m.spinner.View() + " pensando...\n")
	} else {
		if m.err != nil {
			b.WriteString(m.styles.errText.Render("Error: "+m.err.Error()) + "\n")
		}
		b.WriteString(m.textinput.View() + "\n")
	}

	b.WriteString(m.styles.footer.Render("Enter envía · Ctrl+C sale"))
	return b.String()
}

// runChat launches the interactive chat surface.
func runChat(cfg config.Config) error {
	eng, cleanup, err := buildEngine(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	eng.SeedHistory([]dialogue.Turn{{
		Role: "assistant",
		Text: "¡Hola! Puedo agendar audiencias, crear o consultar casos, y resumir documentos.",
		At:   time.Now(),
	}})

	p := tea.NewProgram(initChat(eng), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}
