package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	EventFile  string
	ReportName string
	ReportType []string
	Dir        string
	LogLevel   string
	DryRun     bool
}
