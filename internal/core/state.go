package core

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mayank160920/Fluid-oss/internal/models"
)

// Phase is the command engine's state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingModel
	PhaseAwaitingConfirmation
	PhaseExecutingTool
	PhaseDone
)

// maxTurnsPerCommand bounds the number of model calls a single user
// command may trigger. Exceeding it is a deliberate stop, not an error.
const maxTurnsPerCommand = 15

// ConversationState holds the append-only turn log, the per-command turn
// counter, the staged pending command and the engine phase. All mutations
// are atomic from the caller's perspective.
type ConversationState struct {
	mu              sync.RWMutex
	turns           []models.Turn
	programMessages []models.Message // welcome/status lines, display only
	turnCount       int
	phase           Phase
	pending         *models.PendingCommand
}

func NewConversationState() *ConversationState {
	return &ConversationState{
		turns:           make([]models.Turn, 0),
		programMessages: make([]models.Message, 0),
		phase:           PhaseIdle,
	}
}

func (cs *ConversationState) Phase() Phase {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.phase
}

func (cs *ConversationState) SetPhase(phase Phase) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.phase = phase
}

// IsProcessing is true while a model call or a tool execution is in
// flight. It is false in Idle, Done and AwaitingConfirmation (the UI
// blocks on user input there).
func (cs *ConversationState) IsProcessing() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.phase == PhaseAwaitingModel || cs.phase == PhaseExecutingTool
}

func (cs *ConversationState) Turns() []models.Turn {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]models.Turn, len(cs.turns))
	copy(result, cs.turns)
	return result
}

func (cs *ConversationState) TurnCount() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.turnCount
}

// StartCommand atomically appends the user turn, resets the turn counter
// and moves the engine to AwaitingModel.
func (cs *ConversationState) StartCommand(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.turns = append(cs.turns, models.Turn{
		ID:      uuid.NewString(),
		Role:    models.RoleUser,
		Content: content,
	})
	cs.turnCount = 0
	cs.pending = nil
	cs.phase = PhaseAwaitingModel
}

// AdvanceTurn increments the turn counter and reports whether the loop
// may make another model call.
func (cs *ConversationState) AdvanceTurn() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.turnCount++
	return cs.turnCount <= maxTurnsPerCommand
}

func (cs *ConversationState) AppendAssistantTurn(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.turns = append(cs.turns, models.Turn{
		ID:      uuid.NewString(),
		Role:    models.RoleAssistant,
		Content: content,
	})
}

func (cs *ConversationState) AppendAssistantToolTurn(content string, req models.ToolRequest) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.turns = append(cs.turns, models.Turn{
		ID:          uuid.NewString(),
		Role:        models.RoleAssistant,
		Content:     content,
		ToolRequest: &req,
	})
}

func (cs *ConversationState) AppendToolTurn(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.turns = append(cs.turns, models.Turn{
		ID:      uuid.NewString(),
		Role:    models.RoleTool,
		Content: content,
	})
}

// StagePending stores the tool request awaiting confirmation and moves
// the engine to AwaitingConfirmation.
func (cs *ConversationState) StagePending(req models.ToolRequest) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.pending = &models.PendingCommand{
		ID:               req.ID,
		Command:          req.Command,
		WorkingDirectory: req.WorkingDirectory,
	}
	cs.phase = PhaseAwaitingConfirmation
}

// TakePending clears and returns the staged command.
func (cs *ConversationState) TakePending() (models.PendingCommand, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.pending == nil {
		return models.PendingCommand{}, false
	}
	pending := *cs.pending
	cs.pending = nil
	return pending, true
}

func (cs *ConversationState) Pending() *models.PendingCommand {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if cs.pending == nil {
		return nil
	}
	pending := *cs.pending
	return &pending
}

// Clear resets the turn log, the counter and the pending command
// together. Program messages survive a clear.
func (cs *ConversationState) Clear() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.turns = cs.turns[:0]
	cs.turnCount = 0
	cs.pending = nil
	cs.phase = PhaseIdle
}

// AddProgramMessage adds a display-only line (welcome, status).
func (cs *ConversationState) AddProgramMessage(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.programMessages = append(cs.programMessages, models.Message{
		Content: content,
		Type:    models.Program,
	})
}

// Messages projects program lines and the turn log into display
// messages. An assistant turn carrying a tool request yields an
// Assistant message (when it has text) followed by a ToolCall message.
func (cs *ConversationState) Messages() []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	var result []models.Message
	result = append(result, cs.programMessages...)

	for _, turn := range cs.turns {
		switch turn.Role {
		case models.RoleUser:
			result = append(result, models.Message{
				Content: turn.Content,
				Type:    models.User,
			})
		case models.RoleAssistant:
			if turn.Content != "" {
				result = append(result, models.Message{
					Content: turn.Content,
					Type:    models.Assistant,
				})
			}
			if turn.ToolRequest != nil {
				result = append(result, models.Message{
					Content:    turn.ToolRequest.Command,
					Type:       models.ToolCall,
					ToolCallID: turn.ToolRequest.ID,
					Command:    turn.ToolRequest.Command,
					WorkingDir: turn.ToolRequest.WorkingDirectory,
				})
			}
		case models.RoleTool:
			result = append(result, models.Message{
				Content: turn.Content,
				Type:    models.ToolResult,
			})
		}
	}

	return result
}
