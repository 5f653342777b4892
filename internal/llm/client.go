package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/mayank160920/Fluid-oss/internal/config"
	"github.com/mayank160920/Fluid-oss/internal/models"
)

// toolName is the single function tool exposed to the model.
const toolName = "execute_terminal_command"

// fallbackReply stands in when a response carries neither text nor a
// usable tool call.
const fallbackReply = "(no response)"

// completionTemperature is fixed low to favor repeatable tool selection.
const completionTemperature = 0.1

// Reply is exactly one of: a text-only answer, or a single tool request.
type Reply struct {
	Text string
	Tool *models.ToolRequest
}

// CompletionClient produces one Reply per invocation. One outbound
// network call, no retries at this layer.
type CompletionClient interface {
	Complete(ctx context.Context, settings config.Settings, turns []models.Turn) (Reply, error)
}

// ProtocolError reports a response whose shape could not be interpreted.
// Transport failures (non-2xx, unreachable host) surface as the wrapped
// go-openai error instead.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "unexpected completion response: " + e.Reason
}

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
// A fresh underlying client is built per call so that profile edits made
// between turns take effect on the next call.
type OpenAIClient struct{}

func NewOpenAIClient() *OpenAIClient {
	return &OpenAIClient{}
}

func (c *OpenAIClient) Complete(ctx context.Context, settings config.Settings, turns []models.Turn) (Reply, error) {
	clientConfig := openai.DefaultConfig(settings.APIKey)
	if settings.BaseURL != "" {
		clientConfig.BaseURL = NormalizeBaseURL(settings.BaseURL)
	}
	client := openai.NewClientWithConfig(clientConfig)

	req := openai.ChatCompletionRequest{
		Model:       settings.Model,
		Messages:    BuildMessages(turns),
		Tools:       []openai.Tool{terminalCommandTool()},
		ToolChoice:  "auto",
		Temperature: completionTemperature,
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Reply{}, &ProtocolError{Reason: "response contained no choices"}
	}

	message := resp.Choices[0].Message

	for _, call := range message.ToolCalls {
		if call.Function.Name != toolName {
			continue
		}
		var args toolArguments
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			// Unparseable arguments degrade to a text reply rather than
			// failing the whole turn.
			break
		}
		return Reply{
			Text: message.Content,
			Tool: &models.ToolRequest{
				ID:               call.ID,
				Command:          args.Command,
				WorkingDirectory: args.WorkingDirectory,
			},
		}, nil
	}

	text := message.Content
	if text == "" {
		text = fallbackReply
	}
	return Reply{Text: text}, nil
}

// NormalizeBaseURL strips a trailing /chat/completions so that endpoints
// configured with the full path work the same as bare base URLs (the
// underlying client appends the suffix itself).
func NormalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	trimmed = strings.TrimSuffix(trimmed, "/chat/completions")
	return strings.TrimRight(trimmed, "/")
}

// terminalCommandTool is the single function-tool schema sent with every
// request.
func terminalCommandTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        toolName,
			Description: "Execute a terminal command on the user's machine and return its output, error output and exit code.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"command": map[string]interface{}{
						"type":        "string",
						"description": "The shell command to execute",
					},
					"workingDirectory": map[string]interface{}{
						"type":        "string",
						"description": "Directory to run the command in (optional)",
					},
				},
				"required": []string{"command"},
			},
		},
	}
}
