package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/milestones/internal/app"
)

// Execute implements the go-flags Commander interface for TimelinesCommand.
func (c *TimelinesCommand) Execute(args []string) error {
	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(e.session)
}

func (c *TimelinesCommand) executeWithSession(s *app.Session) error {
	s.Hide(c.Hide...)
	views := s.Timelines()

	if c.globals != nil && c.globals.JSON {
		return writeJSON(map[string]interface{}{
			"count":     len(views),
			"timelines": views,
		})
	}

	if len(views) == 0 {
		fmt.Println("No timelines yet.")
		return nil
	}

	for i, v := range views {
		state := "shown"
		if v.Hidden {
			state = "hidden"
		}
		fmt.Printf("%d. %-20s %s/%s  %3d  %s\n", i+1, v.Key, v.Color.Mid, v.Color.Dark, v.Count, state)
	}
	return nil
}
