package core

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank160920/Fluid-oss/internal/config"
	"github.com/mayank160920/Fluid-oss/internal/llm"
	"github.com/mayank160920/Fluid-oss/internal/models"
	"github.com/mayank160920/Fluid-oss/internal/terminal"
)

type scriptedStep struct {
	reply llm.Reply
	err   error
}

// scriptedClient replays a fixed sequence of replies. Once the script is
// exhausted it repeats the final step, which lets tests model a stubborn
// model that keeps asking for tools.
type scriptedClient struct {
	steps     []scriptedStep
	calls     int
	histories [][]models.Turn
}

func (c *scriptedClient) Complete(ctx context.Context, settings config.Settings, turns []models.Turn) (llm.Reply, error) {
	c.histories = append(c.histories, turns)
	idx := c.calls
	c.calls++
	if idx >= len(c.steps) {
		idx = len(c.steps) - 1
	}
	step := c.steps[idx]
	return step.reply, step.err
}

type recordingExecutor struct {
	requests []terminal.Request
	result   terminal.Result
}

func (e *recordingExecutor) Execute(ctx context.Context, req terminal.Request) terminal.Result {
	e.requests = append(e.requests, req)
	return e.result
}

func textReply(text string) llm.Reply {
	return llm.Reply{Text: text}
}

func toolReply(id, command, workingDir string) llm.Reply {
	return llm.Reply{Tool: &models.ToolRequest{ID: id, Command: command, WorkingDirectory: workingDir}}
}

func newTestEngine(client llm.CompletionClient, executor terminal.Executor, confirm bool) (*Engine, *ConversationState) {
	state := NewConversationState()
	settings := func() config.Settings {
		return config.Settings{
			APIKey:               "test-key",
			Model:                "test-model",
			ConfirmBeforeExecute: confirm,
		}
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	engine := NewEngine(client, executor, settings, state, nil, logrus.NewEntry(logger))
	return engine, state
}

func TestSubmitAppendsUserTurnBeforeModelCall(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{{reply: textReply("hello")}}}
	executor := &recordingExecutor{}
	engine, state := newTestEngine(client, executor, false)

	engine.Submit(context.Background(), "say hello")

	require.Len(t, client.histories, 1)
	require.Len(t, client.histories[0], 1)
	assert.Equal(t, models.RoleUser, client.histories[0][0].Role)
	assert.Equal(t, "say hello", client.histories[0][0].Content)

	turns := state.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, "hello", turns[1].Content)
	assert.Equal(t, PhaseDone, state.Phase())
	assert.Equal(t, 1, state.TurnCount())
}

func TestSubmitIgnoresEmptyInput(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{{reply: textReply("never")}}}
	engine, state := newTestEngine(client, &recordingExecutor{}, false)

	engine.Submit(context.Background(), "")
	engine.Submit(context.Background(), "   \t\n")

	assert.Zero(t, client.calls)
	assert.Empty(t, state.Turns())
	assert.Equal(t, PhaseIdle, state.Phase())
}

func TestSubmitRejectedWhileAwaitingConfirmation(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{{reply: toolReply("call_1", "rm -rf /tmp/x", "")}}}
	executor := &recordingExecutor{}
	engine, state := newTestEngine(client, executor, true)

	engine.Submit(context.Background(), "delete it")
	require.Equal(t, PhaseAwaitingConfirmation, state.Phase())

	engine.Submit(context.Background(), "another command")

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, PhaseAwaitingConfirmation, state.Phase())
	assert.Empty(t, executor.requests)
}

func TestTurnBudgetStopsRunawayLoop(t *testing.T) {
	// The model asks for a tool call on every turn, forever.
	client := &scriptedClient{steps: []scriptedStep{{reply: toolReply("call_x", "true", "")}}}
	executor := &recordingExecutor{result: terminal.Result{ExitCode: 0}}
	engine, state := newTestEngine(client, executor, false)

	engine.Submit(context.Background(), "loop forever")

	assert.Equal(t, maxTurnsPerCommand, client.calls)
	assert.Len(t, executor.requests, maxTurnsPerCommand)
	assert.Equal(t, PhaseDone, state.Phase())

	turns := state.Turns()
	require.NotEmpty(t, turns)
	last := turns[len(turns)-1]
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, stepLimitNotice, last.Content)
}

func TestConfirmationGateBlocksExecution(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{
		{reply: toolReply("call_1", "mkdir /tmp/demo", "/tmp")},
		{reply: textReply("Done")},
	}}
	executor := &recordingExecutor{result: terminal.Result{ExitCode: 0}}
	engine, state := newTestEngine(client, executor, true)

	engine.Submit(context.Background(), "make a demo dir")

	assert.Equal(t, PhaseAwaitingConfirmation, state.Phase())
	assert.False(t, state.IsProcessing())
	assert.Empty(t, executor.requests)

	pending := state.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, "call_1", pending.ID)
	assert.Equal(t, "mkdir /tmp/demo", pending.Command)
	assert.Equal(t, "/tmp", pending.WorkingDirectory)

	engine.ConfirmAndExecute(context.Background())

	require.Len(t, executor.requests, 1)
	assert.Equal(t, "mkdir /tmp/demo", executor.requests[0].Command)
	assert.Equal(t, "/tmp", executor.requests[0].WorkingDirectory)
	assert.Nil(t, state.Pending())
	assert.Equal(t, PhaseDone, state.Phase())
	assert.Equal(t, 2, client.calls)
}

func TestCancelPendingCommandNeverExecutes(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{{reply: toolReply("call_1", "rm -rf /tmp/x", "")}}}
	executor := &recordingExecutor{}
	engine, state := newTestEngine(client, executor, true)

	engine.Submit(context.Background(), "remove /tmp/x")
	require.Equal(t, PhaseAwaitingConfirmation, state.Phase())

	turnsBefore := len(state.Turns())
	engine.CancelPendingCommand()

	assert.Empty(t, executor.requests)
	assert.Nil(t, state.Pending())
	assert.Equal(t, PhaseDone, state.Phase())

	turns := state.Turns()
	require.Len(t, turns, turnsBefore+1)
	last := turns[len(turns)-1]
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, cancelledNotice, last.Content)

	// A second cancel is a no-op.
	engine.CancelPendingCommand()
	assert.Len(t, state.Turns(), turnsBefore+1)
}

func TestConfirmAndExecuteInvalidOutsideAwaitingConfirmation(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{{reply: textReply("hi")}}}
	executor := &recordingExecutor{}
	engine, state := newTestEngine(client, executor, true)

	engine.ConfirmAndExecute(context.Background())

	assert.Zero(t, client.calls)
	assert.Empty(t, executor.requests)
	assert.Equal(t, PhaseIdle, state.Phase())
}

func TestAutoExecuteFeedsToolResultIntoNextCall(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{
		{reply: toolReply("call_1", "ls /tmp", "")},
		{reply: textReply("Done")},
	}}
	executor := &recordingExecutor{result: terminal.Result{Stdout: "a.txt\nb.txt\n", ExitCode: 0}}
	engine, state := newTestEngine(client, executor, false)

	engine.Submit(context.Background(), "list files in /tmp")

	assert.Equal(t, PhaseDone, state.Phase())
	require.Len(t, executor.requests, 1)
	assert.Equal(t, "ls /tmp", executor.requests[0].Command)

	turns := state.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	require.NotNil(t, turns[1].ToolRequest)
	assert.Equal(t, models.RoleTool, turns[2].Role)
	assert.Equal(t, models.RoleAssistant, turns[3].Role)
	assert.Equal(t, "Done", turns[3].Content)

	// The tool result is valid serialized data.
	output, errText, exitCode, ok := terminal.ParseResultPayload(turns[2].Content)
	require.True(t, ok)
	assert.Equal(t, "a.txt\nb.txt\n", output)
	assert.Empty(t, errText)
	assert.Zero(t, exitCode)

	// The second model call saw the tool turn appended to the history.
	require.Len(t, client.histories, 2)
	secondHistory := client.histories[1]
	require.Len(t, secondHistory, 3)
	assert.Equal(t, models.RoleTool, secondHistory[2].Role)
}

func TestModelFailureAppendsSingleErrorTurn(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{{err: errors.New("error, status code: 401, message: Invalid API key")}}}
	executor := &recordingExecutor{}
	engine, state := newTestEngine(client, executor, false)

	engine.Submit(context.Background(), "do something")

	assert.Equal(t, 1, client.calls) // no retry
	assert.Empty(t, executor.requests)
	assert.Equal(t, PhaseDone, state.Phase())

	turns := state.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Contains(t, turns[1].Content, "401")
}

func TestClearResetsConversation(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{{reply: textReply("hello")}}}
	engine, state := newTestEngine(client, &recordingExecutor{}, false)

	engine.Submit(context.Background(), "hi")
	require.NotEmpty(t, state.Turns())

	engine.Clear()

	assert.Empty(t, state.Turns())
	assert.Zero(t, state.TurnCount())
	assert.Nil(t, state.Pending())
	assert.Equal(t, PhaseIdle, state.Phase())
}

func TestTurnCounterResetsOnEachSubmit(t *testing.T) {
	client := &scriptedClient{steps: []scriptedStep{
		{reply: toolReply("call_1", "true", "")},
		{reply: textReply("Done")},
	}}
	executor := &recordingExecutor{}
	engine, state := newTestEngine(client, executor, false)

	engine.Submit(context.Background(), "first")
	assert.Equal(t, 2, state.TurnCount())

	client.steps = []scriptedStep{{reply: textReply("ok")}}
	client.calls = 0
	engine.Submit(context.Background(), "second")
	assert.Equal(t, 1, state.TurnCount())
}
