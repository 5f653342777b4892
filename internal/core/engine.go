package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mayank160920/Fluid-oss/internal/config"
	"github.com/mayank160920/Fluid-oss/internal/llm"
	"github.com/mayank160920/Fluid-oss/internal/models"
	"github.com/mayank160920/Fluid-oss/internal/terminal"
)

const (
	stepLimitNotice = "Stopped: reached the step limit for a single command. Submit again to continue."
	cancelledNotice = "Command cancelled by user."
)

// Engine runs the Command Mode loop: model call, optional confirmation
// gate, tool execution, tool result fed back into the next model call,
// until the model answers with text, an error occurs, or the turn budget
// runs out. It is driven from a single goroutine; entry points invoked in
// the wrong phase are no-ops.
type Engine struct {
	client   llm.CompletionClient
	executor terminal.Executor
	settings func() config.Settings
	state    *ConversationState
	notify   func()
	log      *logrus.Entry
}

func NewEngine(client llm.CompletionClient, executor terminal.Executor, settings func() config.Settings, state *ConversationState, notify func(), logger *logrus.Entry) *Engine {
	if notify == nil {
		notify = func() {}
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		client:   client,
		executor: executor,
		settings: settings,
		state:    state,
		notify:   notify,
		log:      logger,
	}
}

// Submit starts a new command. Valid only from Idle or Done; empty or
// whitespace-only input is ignored.
func (e *Engine) Submit(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	switch e.state.Phase() {
	case PhaseIdle, PhaseDone:
	default:
		return
	}

	e.state.StartCommand(text)
	e.notify()
	e.runLoop(ctx)
}

// ConfirmAndExecute runs the staged command and resumes the loop. Valid
// only from AwaitingConfirmation.
func (e *Engine) ConfirmAndExecute(ctx context.Context) {
	if e.state.Phase() != PhaseAwaitingConfirmation {
		return
	}
	pending, ok := e.state.TakePending()
	if !ok {
		return
	}

	e.executeTool(ctx, models.ToolRequest{
		ID:               pending.ID,
		Command:          pending.Command,
		WorkingDirectory: pending.WorkingDirectory,
	})
	e.runLoop(ctx)
}

// CancelPendingCommand discards the staged command without executing it
// and settles the loop. Valid only from AwaitingConfirmation.
func (e *Engine) CancelPendingCommand() {
	if e.state.Phase() != PhaseAwaitingConfirmation {
		return
	}
	if _, ok := e.state.TakePending(); !ok {
		return
	}

	e.state.AppendAssistantTurn(cancelledNotice)
	e.state.SetPhase(PhaseDone)
	e.notify()
}

// Clear resets the conversation. Ignored while a model call or tool
// execution is in flight.
func (e *Engine) Clear() {
	if e.state.IsProcessing() {
		return
	}
	e.state.Clear()
	e.notify()
}

// runLoop is the iterative heart of Command Mode. One iteration = one
// model call; the turn counter is incremented before each call so a
// stubborn model cannot cycle forever.
func (e *Engine) runLoop(ctx context.Context) {
	for {
		if !e.state.AdvanceTurn() {
			e.state.AppendAssistantTurn(stepLimitNotice)
			e.state.SetPhase(PhaseDone)
			e.notify()
			return
		}

		e.state.SetPhase(PhaseAwaitingModel)
		e.notify()

		// Settings are re-read for every call so profile edits made
		// mid-run apply to the next call.
		reply, err := e.client.Complete(ctx, e.settings(), e.state.Turns())
		if err != nil {
			e.log.WithError(err).Warn("model call failed")
			e.state.AppendAssistantTurn(fmt.Sprintf("The model call failed: %v", err))
			e.state.SetPhase(PhaseDone)
			e.notify()
			return
		}

		if reply.Tool == nil {
			e.state.AppendAssistantTurn(reply.Text)
			e.state.SetPhase(PhaseDone)
			e.notify()
			return
		}

		e.state.AppendAssistantToolTurn(reply.Text, *reply.Tool)

		if e.settings().ConfirmBeforeExecute {
			// Processing clears here; the UI blocks on the user's decision.
			e.state.StagePending(*reply.Tool)
			e.notify()
			return
		}

		e.notify()
		e.executeTool(ctx, *reply.Tool)
	}
}

// executeTool runs the command to completion and appends the serialized
// result as a tool turn, before any further model call.
func (e *Engine) executeTool(ctx context.Context, req models.ToolRequest) {
	e.state.SetPhase(PhaseExecutingTool)
	e.notify()

	result := e.executor.Execute(ctx, terminal.Request{
		Command:          req.Command,
		WorkingDirectory: req.WorkingDirectory,
	})
	e.log.WithFields(logrus.Fields{
		"command":   req.Command,
		"exit_code": result.ExitCode,
	}).Debug("executed terminal command")

	e.state.AppendToolTurn(result.JSON())
	e.notify()
}
