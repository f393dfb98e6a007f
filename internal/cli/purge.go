package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/milestones/internal/app"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		if err := confirmPurge(os.Stdin); err != nil {
			return err
		}
	}

	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(ctx, e.session)
}

func confirmPurge(in io.Reader) error {
	fmt.Println("⚠ WARNING: This will permanently delete ALL milestones on every timeline.")
	fmt.Println()
	fmt.Println("This action cannot be undone.")
	fmt.Println()
	fmt.Print(`Type "PURGE" to confirm: `)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != "PURGE" {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}

func (c *PurgeCommand) executeWithSession(ctx context.Context, s *app.Session) error {
	n, persistErr := s.Clear(ctx)
	if persistErr != nil {
		return fmt.Errorf("purge failed: %w", persistErr)
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(map[string]interface{}{
			"purged":  true,
			"removed": n,
		})
	}

	fmt.Printf("Purged %d milestones. Nothing left to chart.\n", n)
	return nil
}
