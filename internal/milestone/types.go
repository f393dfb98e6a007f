package milestone

import "context"

// Milestone is a single recorded event on a timeline.
type Milestone struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Timeline string `json:"timeline"`
	Start    string `json:"start"` // calendar date, YYYY-MM-DD
	End      string `json:"end"`
	Notes    string `json:"notes"`
}

// Fields holds the user-editable values of a milestone.
type Fields struct {
	Title    string `json:"title"`
	Timeline string `json:"timeline"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Notes    string `json:"notes"`
}

// Storage persists the full milestone collection.
type Storage interface {
	Load(ctx context.Context) ([]Milestone, error)
	Save(ctx context.Context, milestones []Milestone) error
}
