package models

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages       []Message       // Current messages to display
	Status         string          // Status bar text
	Loading        bool            // Loading state from core
	LoadingDots    int             // Animation counter for loading dots
	Width          int             // Terminal width
	Height         int             // Terminal height
	ServiceReady   bool            // Whether the command service is configured
	PendingCommand *PendingCommand // Staged command awaiting user confirmation
}
