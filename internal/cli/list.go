package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/milestone"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(e.session, args)
}

// executeWithSession lists against a provided session (for testing).
// Positional args form a case-insensitive query on title and notes.
func (c *ListCommand) executeWithSession(s *app.Session, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	results := c.filter(s.List(), query)

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(query, results)
	}
	return c.printHuman(query, results)
}

// filter keeps stored order; it never sorts by date.
func (c *ListCommand) filter(ms []milestone.Milestone, query string) []milestone.Milestone {
	timelines := make(map[string]bool, len(c.Timeline))
	for _, t := range c.Timeline {
		timelines[t] = true
	}
	q := strings.ToLower(query)

	out := make([]milestone.Milestone, 0, len(ms))
	for _, m := range ms {
		if len(timelines) > 0 && !timelines[m.Timeline] {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(m.Title), q) &&
			!strings.Contains(strings.ToLower(m.Notes), q) {
			continue
		}
		out = append(out, m)
		if c.Limit > 0 && len(out) == c.Limit {
			break
		}
	}
	return out
}

func (c *ListCommand) printHuman(query string, results []milestone.Milestone) error {
	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No milestones match %q\n", query)
		} else {
			fmt.Println("No milestones yet. Add one with: milestones add")
		}
		return nil
	}

	word := "milestones"
	if len(results) == 1 {
		word = "milestone"
	}
	if query != "" {
		fmt.Printf("Found %d %s for %q\n\n", len(results), word, query)
	} else {
		fmt.Printf("%d %s\n\n", len(results), word)
	}

	for _, m := range results {
		printMilestone(m)
	}
	return nil
}

type jsonListOutput struct {
	Count   int                   `json:"count"`
	Query   string                `json:"query"`
	Results []milestone.Milestone `json:"results"`
}

func (c *ListCommand) printJSON(query string, results []milestone.Milestone) error {
	return writeJSON(jsonListOutput{
		Count:   len(results),
		Query:   query,
		Results: results,
	})
}
