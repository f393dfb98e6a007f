package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/milestones/internal/app"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for delete command")
	}

	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(ctx, e.session)
}

// executeWithSession deletes the milestone. An unknown id is not an error.
func (c *DeleteCommand) executeWithSession(ctx context.Context, s *app.Session) error {
	res, err := s.Delete(ctx, c.ID)
	if err != nil {
		return describeError(err)
	}
	warnPersist(res.PersistErr)
	existed := res.Removed

	if c.globals != nil && c.globals.JSON {
		return writeJSON(map[string]interface{}{
			"id":      c.ID,
			"deleted": existed,
		})
	}

	if existed {
		fmt.Printf("Deleted milestone %s\n", c.ID)
	} else {
		fmt.Printf("No milestone %s; nothing to delete\n", c.ID)
	}
	return nil
}
