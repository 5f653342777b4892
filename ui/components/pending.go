package components

import (
	"github.com/mayank160920/Fluid-oss/internal/models"
	"github.com/mayank160920/Fluid-oss/ui/styles"
)

// RenderPending shows the staged command and the confirm/cancel keys.
func RenderPending(pending *models.PendingCommand, width int) string {
	if pending == nil {
		return ""
	}

	line := "Run command?  $ " + pending.Command
	if pending.WorkingDirectory != "" {
		line += "  (in " + pending.WorkingDirectory + ")"
	}
	line += "\n[y] run    [n] cancel"

	return styles.PendingStyle(width).Render(line) + "\n"
}
