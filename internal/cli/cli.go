package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add       *AddCommand
	Edit      *EditCommand
	Delete    *DeleteCommand
	Show      *ShowCommand
	List      *ListCommand
	Timelines *TimelinesCommand
	Chart     *ChartCommand
	Status    *StatusCommand
	Serve     *ServeCommand
	Purge     *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "milestones"
	parser.LongDescription = "Record life milestones on named timelines and chart them as horizontal date ranges."

	cmds := &commands{
		Add:       &AddCommand{globals: &globals, version: version},
		Edit:      &EditCommand{globals: &globals, version: version},
		Delete:    &DeleteCommand{globals: &globals, version: version},
		Show:      &ShowCommand{globals: &globals, version: version},
		List:      &ListCommand{globals: &globals, version: version},
		Timelines: &TimelinesCommand{globals: &globals, version: version},
		Chart:     &ChartCommand{globals: &globals, version: version},
		Status:    &StatusCommand{globals: &globals, version: version},
		Serve:     &ServeCommand{globals: &globals, version: version},
		Purge:     &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("add", "Record a milestone", "Record a new milestone with title, timeline, start and end dates.", cmds.Add)
	parser.AddCommand("edit", "Edit a milestone", "Replace every field of an existing milestone, keeping its id and position.", cmds.Edit)
	parser.AddCommand("delete", "Delete a milestone", "Delete a milestone by id. Unknown ids are ignored.", cmds.Delete)
	parser.AddCommand("show", "Print one milestone", "Print the stored fields of a specific milestone.", cmds.Show)
	parser.AddCommand("list", "List milestones", "List milestones in stored order, optionally filtered by timeline or keyword.", cmds.List)
	parser.AddCommand("timelines", "Show timelines", "Show every timeline in first-seen order with its color and milestone count.", cmds.Timelines)
	parser.AddCommand("chart", "Build the chart", "Build the chart dataset and write it as JSON or SVG.", cmds.Chart)
	parser.AddCommand("status", "Show storage health and statistics", "Show storage backend, milestone counts and configuration summary.", cmds.Status)
	parser.AddCommand("serve", "Start the local HTTP service", "Serve the milestone API, chart and metrics over HTTP.", cmds.Serve)
	parser.AddCommand("purge", "Delete ALL milestones", "Delete ALL milestones. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the milestones CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("milestones %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
