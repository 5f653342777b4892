package core

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mayank160920/Fluid-oss/internal/config"
	"github.com/mayank160920/Fluid-oss/internal/eventbus"
	"github.com/mayank160920/Fluid-oss/internal/llm"
	"github.com/mayank160920/Fluid-oss/internal/models"
	"github.com/mayank160920/Fluid-oss/internal/terminal"
)

// CommandService owns the engine and bridges it to the UI over the event
// bus. All entry points run on the service's single event-loop goroutine,
// so at most one loop is in flight per service instance.
type CommandService struct {
	engine        *Engine
	config        *config.Config
	state         *ConversationState
	eventBus      *eventbus.EventBus
	ctx           context.Context
	cancel        context.CancelFunc
	lastSentCount int // Track how many messages we've sent to UI
	log           *logrus.Entry
}

// NewCommandService creates a CommandService regardless of config
// validity so there is always a service to manage state.
func NewCommandService(cfg *config.Config, eb *eventbus.EventBus) *CommandService {
	state := NewConversationState()
	ctx, cancel := context.WithCancel(context.Background())
	logger := logrus.WithField("component", "command_service")

	service := &CommandService{
		config:   cfg,
		state:    state,
		eventBus: eb,
		ctx:      ctx,
		cancel:   cancel,
		log:      logger,
	}

	service.engine = NewEngine(
		llm.NewOpenAIClient(),
		terminal.NewShellExecutor(),
		cfg.Snapshot,
		state,
		service.pushStateToUI,
		logger,
	)

	service.addWelcomeMessages(cfg)

	return service
}

// Start runs the core logic in a goroutine
func (cs *CommandService) Start() {
	// Send initial state to UI immediately
	cs.pushStateToUI()
	go cs.eventLoop()
}

func (cs *CommandService) Stop() {
	cs.cancel()
}

func (cs *CommandService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *CommandService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitCommandEvent:
		cs.handleSubmit(e.Text)
	case eventbus.ConfirmCommandEvent:
		cs.engine.ConfirmAndExecute(cs.ctx)
	case eventbus.CancelCommandEvent:
		cs.engine.CancelPendingCommand()
	case eventbus.ClearConversationEvent:
		cs.engine.Clear()
	}
}

func (cs *CommandService) handleSubmit(text string) {
	if !cs.config.IsValid() {
		cs.state.AddProgramMessage("Profile not configured. Run: fluid profile add <name>")
		cs.pushStateToUI()
		return
	}
	cs.engine.Submit(cs.ctx, text)
}

func (cs *CommandService) pushStateToUI() {
	allMessages := cs.state.Messages()

	// A shrinking message list means the conversation was cleared; resend
	// everything and tell the UI to replace its history.
	reset := false
	if cs.lastSentCount > len(allMessages) {
		reset = true
		cs.lastSentCount = 0
	}

	// Only send new messages to reduce resource usage
	newMessages := allMessages[cs.lastSentCount:]
	cs.lastSentCount = len(allMessages)

	if err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages:       newMessages,
		IsProcessing:   cs.state.IsProcessing(),
		PendingCommand: cs.state.Pending(),
		Reset:          reset,
	}); err != nil {
		cs.log.WithError(err).Error("failed to push state to UI")
	}
}

func (cs *CommandService) IsReady() bool {
	return cs.config.IsValid()
}

// GetInitialMessages returns the initial messages for printing to terminal
func (cs *CommandService) GetInitialMessages() []models.Message {
	return cs.state.Messages()
}

func (cs *CommandService) addWelcomeMessages(cfg *config.Config) {
	// Welcome header
	cs.state.AddProgramMessage("-- FLUID COMMAND MODE --")

	// Profile information with status
	if cfg.IsValid() {
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [OK]", cfg.ActiveProfile))
		cs.state.AddProgramMessage("Describe a task and press Enter; commands run in your shell")
		if cfg.Snapshot().ConfirmBeforeExecute {
			cs.state.AddProgramMessage("Commands wait for your confirmation before running")
		}
	} else {
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile))
		cs.state.AddProgramMessage("Configure your profile to start:")
		cs.state.AddProgramMessage("• Run: fluid profile add <name>")
		cs.state.AddProgramMessage("• Or edit: ~/.fluid/config.json")
	}

	cs.state.AddProgramMessage("Controls: Ctrl+C to exit, Ctrl+L to clear")
	cs.state.AddProgramMessage("")
}
