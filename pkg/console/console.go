package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// Console implements types.ConsoleInterface on top of pterm.
type Console struct{}

// NewConsole creates a Console.
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status starts a spinner showing message.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Shared colors for console output.
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BoldRed       = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Severity colors a risk severity for tables: high red, medium yellow,
// low green.
func Severity(severity string) string {
	switch strings.ToLower(severity) {
	case "high":
		return BoldRed(severity)
	case "medium":
		return BrightYellow(severity)
	case "low":
		return BrightGreen(severity)
	default:
		return severity
	}
}

// Table implements types.TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render draws the table as a boxed pterm table.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayTrendBars prints one bar per month scaled to the highest cost,
// with the month-over-month change.
func (c *Console) DisplayTrendBars(title, currencySymbol string, monthlyCosts []types.MonthlyCost) {
	maxCost := 0.0
	for _, cost := range monthlyCosts {
		if cost.Cost > maxCost {
			maxCost = cost.Cost
		}
	}

	if maxCost == 0 {
		pterm.Warning.Printfln("All costs are %s0.00 for this period", currencySymbol)
		return
	}

	tableData := pterm.TableData{
		{"Month", "Cost", "", "MoM Change"},
	}

	var prevCost *float64

	for _, mc := range monthlyCosts {
		barLength := int((mc.Cost / maxCost) * 40)
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		change := ""

		if prevCost != nil {
			barColor, change = trendChange(*prevCost, mc.Cost, bar)
		}

		tableData = append(tableData, []string{
			mc.Month,
			fmt.Sprintf("%s%.2f", currencySymbol, mc.Cost),
			barColor,
			change,
		})

		currentCost := mc.Cost
		prevCost = &currentCost
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Println("\n" + panel)
}

func trendChange(prev, cur float64, bar string) (string, string) {
	if prev < 0.01 {
		if cur < 0.01 {
			return pterm.FgYellow.Sprint(bar), pterm.FgYellow.Sprint("0%")
		}
		return pterm.FgRed.Sprint(bar), pterm.FgRed.Sprint("N/A")
	}

	changePercent := ((cur - prev) / prev) * 100.0
	switch {
	case math.Abs(changePercent) < 0.01:
		return pterm.FgYellow.Sprint(bar), pterm.FgYellow.Sprint("0%")
	case changePercent > 999:
		return pterm.FgRed.Sprint(bar), pterm.FgRed.Sprint(">+999%")
	case changePercent < -999:
		return pterm.FgGreen.Sprint(bar), pterm.FgGreen.Sprint(">-999%")
	case changePercent > 0:
		return pterm.FgRed.Sprint(bar), pterm.FgRed.Sprintf("+%.2f%%", changePercent)
	default:
		return pterm.FgGreen.Sprint(bar), pterm.FgGreen.Sprintf("%.2f%%", changePercent)
	}
}
