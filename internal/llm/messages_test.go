package llm

import (
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank160920/Fluid-oss/internal/models"
)

func TestBuildMessagesPrependsSystemPrompt(t *testing.T) {
	messages := BuildMessages(nil)
	require.Len(t, messages, 1)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.NotEmpty(t, messages[0].Content)
}

func TestBuildMessagesPreservesRoleOrderAndCorrelation(t *testing.T) {
	turns := []models.Turn{
		{ID: "t1", Role: models.RoleUser, Content: "list files in /tmp"},
		{ID: "t2", Role: models.RoleAssistant, Content: "", ToolRequest: &models.ToolRequest{
			ID:               "call_1",
			Command:          "ls /tmp",
			WorkingDirectory: "/tmp",
		}},
		{ID: "t3", Role: models.RoleTool, Content: `{"output":"a.txt","error":"","exit_code":0}`},
		{ID: "t4", Role: models.RoleAssistant, Content: "Done"},
	}

	messages := BuildMessages(turns)
	require.Len(t, messages, 5)

	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "list files in /tmp", messages[1].Content)

	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)
	require.Len(t, messages[2].ToolCalls, 1)
	call := messages[2].ToolCalls[0]
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, openai.ToolTypeFunction, call.Type)
	assert.Equal(t, toolName, call.Function.Name)

	var args toolArguments
	require.NoError(t, json.Unmarshal([]byte(call.Function.Arguments), &args))
	assert.Equal(t, "ls /tmp", args.Command)
	assert.Equal(t, "/tmp", args.WorkingDirectory)

	assert.Equal(t, openai.ChatMessageRoleTool, messages[3].Role)
	assert.Equal(t, "call_1", messages[3].ToolCallID)

	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[4].Role)
	assert.Empty(t, messages[4].ToolCalls)
}

func TestBuildMessagesSentinelWhenNoOpenToolRequest(t *testing.T) {
	turns := []models.Turn{
		{ID: "t1", Role: models.RoleTool, Content: `{"output":"","error":"","exit_code":0}`},
	}

	messages := BuildMessages(turns)
	require.Len(t, messages, 2)
	assert.Equal(t, sentinelToolCallID, messages[1].ToolCallID)
}

func TestBuildMessagesToolRequestClosedByToolTurn(t *testing.T) {
	turns := []models.Turn{
		{ID: "t1", Role: models.RoleAssistant, ToolRequest: &models.ToolRequest{ID: "call_1", Command: "ls"}},
		{ID: "t2", Role: models.RoleTool, Content: "{}"},
		// Second tool turn with no new request falls back to the sentinel.
		{ID: "t3", Role: models.RoleTool, Content: "{}"},
	}

	messages := BuildMessages(turns)
	require.Len(t, messages, 4)
	assert.Equal(t, "call_1", messages[2].ToolCallID)
	assert.Equal(t, sentinelToolCallID, messages[3].ToolCallID)
}

func TestBuildMessagesRoundTripRoles(t *testing.T) {
	turns := []models.Turn{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleAssistant, Content: "b", ToolRequest: &models.ToolRequest{ID: "c1", Command: "x"}},
		{Role: models.RoleTool, Content: "r"},
		{Role: models.RoleAssistant, Content: "c"},
		{Role: models.RoleUser, Content: "d"},
	}

	messages := BuildMessages(turns)
	require.Len(t, messages, len(turns)+1)

	wantRoles := []string{
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleUser,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleTool,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleUser,
	}
	for i, want := range wantRoles {
		assert.Equal(t, want, messages[i].Role, "message %d", i)
	}
}
