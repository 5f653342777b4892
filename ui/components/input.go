package components

import (
	"github.com/mayank160920/Fluid-oss/ui/styles"
)

func RenderInput(inputView string, width int) string {
	inputStyle := styles.InputStyle(width)
	return inputStyle.Render(inputView)
}
