package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// milestoneFlags are the editable fields shared by add and edit.
type milestoneFlags struct {
	Title    string `long:"title" description:"Milestone title (required)"`
	Timeline string `long:"timeline" description:"Timeline the milestone belongs to (required)"`
	Start    string `long:"start" description:"Start date, YYYY-MM-DD (required)"`
	End      string `long:"end" description:"End date, YYYY-MM-DD (required)"`
	Notes    string `long:"notes" description:"Free-form notes"`
}

// AddCommand — record a new milestone.
type AddCommand struct {
	milestoneFlags

	globals *GlobalFlags
	version string
}

// EditCommand — replace the fields of an existing milestone.
type EditCommand struct {
	ID string `long:"id" description:"Milestone ID (required)"`
	milestoneFlags

	globals *GlobalFlags
	version string
}

// DeleteCommand — remove a milestone by id.
type DeleteCommand struct {
	ID string `long:"id" description:"Milestone ID (required)"`

	globals *GlobalFlags
	version string
}

// ShowCommand — print one milestone.
type ShowCommand struct {
	ID     string `long:"id" description:"Milestone ID (required)"`
	Format string `long:"format" description:"Output format: md | json" default:"md"`

	globals *GlobalFlags
	version string
}

// ListCommand — list milestones in stored order, optionally filtered.
type ListCommand struct {
	Timeline []string `long:"timeline" description:"Only milestones on this timeline (repeatable)"`
	Limit    int      `long:"limit" description:"Maximum results (0 = all)" default:"0"`

	globals *GlobalFlags
	version string
}

// TimelinesCommand — show the timeline index with colors and counts.
type TimelinesCommand struct {
	Hide []string `long:"hide" description:"Report this timeline as hidden (repeatable)"`

	globals *GlobalFlags
	version string
}

// ChartCommand — build the chart dataset and write it as JSON or SVG.
type ChartCommand struct {
	Hide   []string `long:"hide" description:"Hide this timeline (repeatable)"`
	Format string   `long:"format" description:"Output format: json | svg" default:"json"`
	Out    string   `long:"out" description:"Write to file instead of stdout"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show storage backend, counts and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// ServeCommand — run the local HTTP service.
type ServeCommand struct {
	Host string `long:"host" description:"Override listen host"`
	Port int    `long:"port" description:"Override listen port"`

	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL milestones with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
