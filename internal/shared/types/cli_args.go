package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile        string
	Provider          int
	ExitStrategy      int
	AssessmentType    int
	Catalogue         string
	DatasetDir        string
	DatasetURL        string
	SkipDatasetUpdate bool
	ReportName        string
	ReportType        []string
	Dir               string
	Anonymize         bool
	Verbosity         int
}
