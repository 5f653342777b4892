package models

type MessageType int

const (
	User MessageType = iota
	Assistant
	Program
	ToolCall
	ToolResult
)

// Message is the display-side projection of a Turn. The UI renders
// these; the core derives them from the turn log on demand.
type Message struct {
	Content string
	Type    MessageType
	// Additional fields for tool calls and results
	ToolCallID string // For ToolCall and ToolResult messages
	Command    string // For ToolCall messages
	WorkingDir string // For ToolCall messages (optional)
}
