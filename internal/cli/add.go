package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/milestone"
)

func (f milestoneFlags) fields() milestone.Fields {
	return milestone.Fields{
		Title:    f.Title,
		Timeline: f.Timeline,
		Start:    f.Start,
		End:      f.End,
		Notes:    f.Notes,
	}
}

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(ctx, e.session)
}

// executeWithSession runs the add logic against a provided session (used by tests).
func (c *AddCommand) executeWithSession(ctx context.Context, s *app.Session) error {
	res, err := s.Add(ctx, c.fields())
	if err != nil {
		return describeError(err)
	}
	warnPersist(res.PersistErr)

	return printMutation("Added", res, c.globals)
}

// printMutation reports the result of add or edit.
func printMutation(verb string, res app.Result, globals *GlobalFlags) error {
	m := res.Milestone
	if globals != nil && globals.JSON {
		out := map[string]interface{}{
			"milestone": m,
			"saved":     res.PersistErr == nil,
		}
		if res.PersistErr != nil {
			out["persist_error"] = res.PersistErr.Error()
		}
		return writeJSON(out)
	}

	fmt.Printf("%s milestone %s\n", verb, m.ID)
	fmt.Printf("  Title:    %s\n", m.Title)
	fmt.Printf("  Timeline: %s\n", m.Timeline)
	fmt.Printf("  Dates:    %s → %s\n", m.Start, m.End)
	if m.Notes != "" {
		fmt.Printf("  Notes:    %s\n", m.Notes)
	}
	return nil
}
