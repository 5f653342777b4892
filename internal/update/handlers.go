package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mayank160920/Fluid-oss/internal/eventbus"
	"github.com/mayank160920/Fluid-oss/internal/models"
)

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		if event.Reset {
			appModel.Messages = event.Messages
		} else {
			appModel.Messages = append(appModel.Messages, event.Messages...)
		}
		appModel.Loading = event.IsProcessing
		appModel.PendingCommand = event.PendingCommand

		// Update status based on core state
		switch {
		case event.PendingCommand != nil:
			appModel.Status = "Confirm command: [y] run  [n] cancel"
		case event.IsProcessing:
			appModel.Status = "Working"
		default:
			appModel.Status = "Ready"
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
