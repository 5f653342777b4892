package llm

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"

	"github.com/mayank160920/Fluid-oss/internal/models"
)

// sentinelToolCallID correlates a tool turn whose triggering tool request
// is missing from the history. The loop never produces such a history;
// this tolerates replayed or hand-built ones.
const sentinelToolCallID = "tool_call_0"

// toolArguments is the JSON payload of an execute_terminal_command call.
type toolArguments struct {
	Command          string `json:"command"`
	WorkingDirectory string `json:"workingDirectory,omitempty"`
}

// BuildMessages translates the turn log into the wire protocol's
// role-tagged message list, with the fixed system prompt prepended.
// Tool turns are correlated to the most recent open tool request.
func BuildMessages(turns []models.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	// ID of the assistant tool request still awaiting its tool turn.
	openToolCallID := ""

	for _, turn := range turns {
		switch turn.Role {
		case models.RoleUser:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: turn.Content,
			})

		case models.RoleAssistant:
			message := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: turn.Content,
			}
			if turn.ToolRequest != nil {
				args, err := json.Marshal(toolArguments{
					Command:          turn.ToolRequest.Command,
					WorkingDirectory: turn.ToolRequest.WorkingDirectory,
				})
				if err != nil {
					args = []byte("{}")
				}
				message.ToolCalls = []openai.ToolCall{{
					ID:   turn.ToolRequest.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      toolName,
						Arguments: string(args),
					},
				}}
				openToolCallID = turn.ToolRequest.ID
			}
			messages = append(messages, message)

		case models.RoleTool:
			callID := openToolCallID
			if callID == "" {
				callID = sentinelToolCallID
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    turn.Content,
				ToolCallID: callID,
			})
			openToolCallID = ""
		}
	}

	return messages
}
