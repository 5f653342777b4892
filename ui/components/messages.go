package components

import (
	"strconv"
	"strings"

	"github.com/mayank160920/Fluid-oss/internal/models"
	"github.com/mayank160920/Fluid-oss/internal/terminal"
	"github.com/mayank160920/Fluid-oss/ui/styles"
)

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	programStyle := styles.ProgramStyle()
	toolCallStyle := styles.ToolCallStyle()
	toolResultStyle := styles.ToolResultStyle()

	for _, msg := range messages {
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render("Assistant: "+msg.Content) + "\n\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		case models.ToolCall:
			b.WriteString(toolCallStyle.Render(renderToolCall(msg)) + "\n\n")
		case models.ToolResult:
			b.WriteString(toolResultStyle.Render(renderToolResult(msg.Content)) + "\n\n")
		}
	}

	return b.String()
}

func renderToolCall(msg models.Message) string {
	line := "$ " + msg.Command
	if msg.WorkingDir != "" {
		line += "  (in " + msg.WorkingDir + ")"
	}
	return line
}

// renderToolResult unpacks the serialized execution result for display,
// falling back to the raw content when it does not parse.
func renderToolResult(content string) string {
	output, errText, exitCode, ok := terminal.ParseResultPayload(content)
	if !ok {
		return content
	}

	var parts []string
	if trimmed := strings.TrimRight(output, "\n"); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if trimmed := strings.TrimRight(errText, "\n"); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if exitCode != 0 {
		parts = append(parts, "exit code "+strconv.Itoa(exitCode))
	}
	if len(parts) == 0 {
		return "(no output)"
	}
	return strings.Join(parts, "\n")
}
