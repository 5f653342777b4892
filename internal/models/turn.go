package models

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolRequest is the model's request to run a terminal command.
// Only meaningful on assistant turns.
type ToolRequest struct {
	ID               string
	Command          string
	WorkingDirectory string
}

// Turn is the conversation's unit of record. Turns are append-only and
// never mutated after creation.
type Turn struct {
	ID          string
	Role        Role
	Content     string // for tool turns this is the serialized execution result
	ToolRequest *ToolRequest
}

// PendingCommand is a staged tool request awaiting user confirmation.
// At most one exists at a time.
type PendingCommand struct {
	ID               string
	Command          string
	WorkingDirectory string
}
