// Package chart turns a milestone collection into the dataset and options
// consumed by a horizontal range chart.
package chart

import (
	"github.com/runnerr0/milestones/internal/milestone"
	"github.com/runnerr0/milestones/internal/timeline"
)

// Dataset is the renderable form of the collection. Categories define the
// vertical order of rows.
type Dataset struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// Series holds every milestone of one timeline.
type Series struct {
	Label       string  `json:"label"`
	Color       string  `json:"color"`
	BorderColor string  `json:"borderColor"`
	Hidden      bool    `json:"hidden"`
	Points      []Point `json:"points"`
}

// Point is one milestone bar: [start, end] in Unix milliseconds.
type Point struct {
	Range [2]int64 `json:"range"`
	Title string   `json:"title"`
	ID    string   `json:"id"`
}

// Build groups ms by timeline and emits one series per index entry, in
// index order. Points keep collection order; nothing is sorted by date.
// An unparseable date yields *milestone.InvalidDateError and no dataset.
func Build(ms []milestone.Milestone, index []string, colors map[string]timeline.Color, overlay *timeline.Overlay) (*Dataset, error) {
	groups := make(map[string][]milestone.Milestone, len(index))
	for _, m := range ms {
		groups[m.Timeline] = append(groups[m.Timeline], m)
	}

	ds := &Dataset{
		Categories: append([]string{}, index...),
		Series:     make([]Series, 0, len(index)),
	}

	for _, key := range index {
		color, ok := colors[key]
		if !ok {
			color = timeline.Neutral
		}

		s := Series{
			Label:       key,
			Color:       color.Mid,
			BorderColor: color.Dark,
			Hidden:      overlay.Hidden(key),
			Points:      make([]Point, 0, len(groups[key])),
		}
		for _, m := range groups[key] {
			start, end, err := m.Timestamps()
			if err != nil {
				return nil, err
			}
			s.Points = append(s.Points, Point{
				Range: [2]int64{start, end},
				Title: m.Title,
				ID:    m.ID,
			})
		}
		ds.Series = append(ds.Series, s)
	}

	return ds, nil
}

// FromCollection computes the index and colors for ms and builds the dataset.
func FromCollection(ms []milestone.Milestone, overlay *timeline.Overlay) (*Dataset, error) {
	index := timeline.Compute(ms)
	return Build(ms, index, timeline.Assign(index), overlay)
}
