package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mayank160920/Fluid-oss/internal/dispatcher"
	"github.com/mayank160920/Fluid-oss/internal/eventbus"
	"github.com/mayank160920/Fluid-oss/internal/models"
	"github.com/mayank160920/Fluid-oss/internal/update"
	"github.com/mayank160920/Fluid-oss/ui/components"
)

type AppModel struct {
	appModel   models.AppModel
	input      textinput.Model
	dispatcher *dispatcher.EventDispatcher
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		update.TickCmd(),
		m.dispatcher.ListenForUIEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case update.CoreEventMsg:
		cmd := update.HandleCoreEvent(&m.appModel, msg)
		return m, tea.Batch(cmd, m.dispatcher.ListenForUIEvents())

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		update.HandleWindowSizeMsg(&m.appModel, msg)
		return m, nil

	case update.TickMsg:
		return m, update.HandleTickMsg(&m.appModel)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) handleKey(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eventBus := m.dispatcher.GetEventBus()

	// A staged command owns the keyboard until the user decides
	if m.appModel.PendingCommand != nil {
		switch keyMsg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "y", "Y":
			m.sendToCore(eventBus, eventbus.ConfirmCommandEvent{})
		case "n", "N", "esc":
			m.sendToCore(eventBus, eventbus.CancelCommandEvent{})
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+l":
		m.sendToCore(eventBus, eventbus.ClearConversationEvent{})
		return m, nil

	case "enter":
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		if !m.appModel.ServiceReady {
			m.appModel.Status = "Command service not configured"
			m.input.Reset()
			return m, nil
		}
		m.sendToCore(eventBus, eventbus.SubmitCommandEvent{Text: text})
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	return m, cmd
}

func (m *AppModel) sendToCore(eb *eventbus.EventBus, event eventbus.UIEvent) {
	if err := eb.SendToCore(event); err != nil {
		m.appModel.Status = "Error sending event: " + err.Error()
	}
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderMessages(m.appModel.Messages))
	b.WriteString(components.RenderPending(m.appModel.PendingCommand, m.appModel.Width))
	b.WriteString(components.RenderInput(m.input.View(), m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))

	return b.String()
}
