package types

// ConsoleInterface defines console output for the assessment CLI.
type ConsoleInterface interface {
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle

	CreateTable() TableInterface
	DisplayTrendBars(title, currencySymbol string, monthlyCosts []MonthlyCost)
}

// StatusHandle updates a running status message.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// TableInterface builds a table for console rendering.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// MonthlyCost is one bar of the cost trend chart.
type MonthlyCost struct {
	Month string  `json:"month"`
	Cost  float64 `json:"cost"`
}
