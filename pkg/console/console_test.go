package console

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestTrendChange(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	tests := map[string]struct {
		prev, cur  float64
		wantChange string
	}{
		"both zero":     {prev: 0, cur: 0, wantChange: "0%"},
		"from zero":     {prev: 0, cur: 10, wantChange: "N/A"},
		"unchanged":     {prev: 10, cur: 10, wantChange: "0%"},
		"increase":      {prev: 10, cur: 15, wantChange: "+50.00%"},
		"decrease":      {prev: 20, cur: 15, wantChange: "-25.00%"},
		"huge increase": {prev: 1, cur: 50, wantChange: ">+999%"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, change := trendChange(tc.prev, tc.cur, "##")
			assert.Contains(t, change, tc.wantChange)
		})
	}
}

func TestTable_Render(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	table := NewConsole().CreateTable()
	table.AddColumn("Risk")
	table.AddColumn("Count")
	table.AddRow("No alternatives", 3)

	out := table.Render()
	assert.Contains(t, out, "Risk")
	assert.Contains(t, out, "No alternatives")
	assert.Contains(t, out, "3")
}
