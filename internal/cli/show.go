package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/milestone"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for show command")
	}

	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(e.session)
}

func (c *ShowCommand) executeWithSession(s *app.Session) error {
	m, err := s.Get(c.ID)
	if err != nil {
		return describeError(err)
	}

	// --json global flag wins over --format
	if c.globals != nil && c.globals.JSON {
		return writeJSON(m)
	}

	switch c.Format {
	case "json":
		return writeJSON(m)
	case "md", "":
		outputMarkdown(m)
		return nil
	default:
		return fmt.Errorf("unknown format %q (use md or json)", c.Format)
	}
}

func outputMarkdown(m milestone.Milestone) {
	fmt.Println("---")
	fmt.Printf("id: %s\n", m.ID)
	fmt.Printf("title: %s\n", m.Title)
	fmt.Printf("timeline: %s\n", m.Timeline)
	fmt.Printf("start: %s\n", m.Start)
	fmt.Printf("end: %s\n", m.End)
	fmt.Println("---")
	fmt.Println()
	if m.Notes == "" {
		fmt.Println("No notes")
	} else {
		fmt.Println(m.Notes)
	}
}
