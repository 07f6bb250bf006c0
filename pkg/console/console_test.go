package console

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

func TestTableRender(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	table := NewConsole().CreateTable()
	table.AddColumn("Resource")
	table.AddColumn("Increase")
	table.AddRow("i-1", 12.5)

	out := table.Render()
	assert.Contains(t, out, "Resource")
	assert.Contains(t, out, "i-1")
	assert.Contains(t, out, "12.5")
}

func TestRenderIncreaseBars(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	out := RenderIncreaseBars("Top resources", []types.Bar{{Label: "i-1", Value: 200}, {Label: "i-2", Value: 0.001}})
	assert.Contains(t, out, "Top resources")
	assert.Contains(t, out, "$200.00")
	assert.Contains(t, out, "i-2")

	assert.Contains(t, RenderIncreaseBars("x", nil), "No cost increase")
}
