package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/mayank160920/Fluid-oss/internal/config"
	"github.com/mayank160920/Fluid-oss/internal/core"
	"github.com/mayank160920/Fluid-oss/internal/dispatcher"
	"github.com/mayank160920/Fluid-oss/internal/eventbus"
	"github.com/mayank160920/Fluid-oss/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.CommandService
	model      *AppModel
}

func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to load configuration")
		return nil, err
	}

	// Create event bus
	eb := eventbus.NewEventBus()

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	// Command service is always created; it handles invalid config internally
	service := core.NewCommandService(cfg, eb)

	// Create app model
	model := &AppModel{
		appModel:   createInitialAppModel(service),
		input:      createInput(),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(service *core.CommandService) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:     make([]models.Message, 0),
		Status:       "Ready",
		Loading:      false,
		ServiceReady: service.IsReady(),
	}
}

func createInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Describe a task..."
	ti.CharLimit = 0
	ti.Focus()
	return ti
}
