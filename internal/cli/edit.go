package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/milestones/internal/app"
)

// Execute implements the go-flags Commander interface for EditCommand.
func (c *EditCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for edit command")
	}

	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(ctx, e.session)
}

// executeWithSession replaces every field of the milestone, keeping its id
// and position.
func (c *EditCommand) executeWithSession(ctx context.Context, s *app.Session) error {
	res, err := s.Save(ctx, c.ID, c.fields())
	if err != nil {
		return describeError(err)
	}
	warnPersist(res.PersistErr)

	return printMutation("Updated", res, c.globals)
}
