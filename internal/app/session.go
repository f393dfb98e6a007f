// Package app ties the milestone repository and the visibility overlay into
// one session and recomputes every derived view on each read.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/runnerr0/milestones/internal/chart"
	"github.com/runnerr0/milestones/internal/milestone"
	"github.com/runnerr0/milestones/internal/timeline"
)

// ChartRecorder is notified after every dataset build.
type ChartRecorder interface {
	RecordChartBuild(err error)
}

// Session owns the repository and the overlay. All methods are serialized
// by one mutex, so concurrent callers see a single thread of control.
type Session struct {
	mu       sync.Mutex
	repo     *milestone.Repository
	overlay  *timeline.Overlay
	timeUnit string
	logger   *zap.Logger
	recorder ChartRecorder
}

// Option configures a Session.
type Option func(*Session)

// WithTimeUnit sets the time axis gridline unit reported in chart options.
func WithTimeUnit(unit string) Option {
	return func(s *Session) { s.timeUnit = unit }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithChartRecorder registers a recorder for dataset builds.
func WithChartRecorder(r ChartRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// NewSession starts a session over repo with nothing hidden.
func NewSession(repo *milestone.Repository, opts ...Option) *Session {
	s := &Session{
		repo:     repo,
		overlay:  timeline.NewOverlay(),
		timeUnit: chart.DefaultTimeUnit,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of a mutation. PersistErr is set when the change
// was applied in memory but could not be saved. Removed is only meaningful
// for Delete.
type Result struct {
	Milestone  milestone.Milestone
	Removed    bool
	PersistErr error
}

// Add creates a milestone.
func (s *Session) Add(ctx context.Context, f milestone.Fields) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.repo.Add(ctx, f)
	if err != nil {
		return Result{}, err
	}
	return Result{Milestone: m, PersistErr: s.repo.PersistErr()}, nil
}

// Update replaces the fields of milestone id.
func (s *Session) Update(ctx context.Context, id string, f milestone.Fields) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return Result{}, err
	}
	return Result{Milestone: m, PersistErr: s.repo.PersistErr()}, nil
}

// Save adds f when editingID is empty and updates editingID otherwise, the
// way an edit form submits.
func (s *Session) Save(ctx context.Context, editingID string, f milestone.Fields) (Result, error) {
	if editingID == "" {
		return s.Add(ctx, f)
	}
	return s.Update(ctx, editingID, f)
}

// Delete removes milestone id; a missing id is a no-op and never carries a
// persist error from an earlier save.
func (s *Session) Delete(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if !removed {
		return Result{}, nil
	}
	return Result{Removed: true, PersistErr: s.repo.PersistErr()}, nil
}

// Clear removes every milestone and returns the count removed.
func (s *Session) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.repo.Clear(ctx)
	return n, s.repo.PersistErr()
}

// List returns a copy of the collection in stored order.
func (s *Session) List() []milestone.Milestone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.List()
}

// Get returns milestone id.
func (s *Session) Get(id string) (milestone.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(id)
}

// PersistErr reports whether the last save failed.
func (s *Session) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.PersistErr()
}

// Toggle flips the visibility of timeline key and reports whether it is
// hidden afterwards.
func (s *Session) Toggle(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	hidden := s.overlay.Toggle(key)
	s.logger.Debug("timeline visibility toggled", zap.String("timeline", key), zap.Bool("hidden", hidden))
	return hidden
}

// Hide hides every key in keys.
func (s *Session) Hide(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.overlay.Hide(k)
	}
}

// Hidden returns the hidden timeline keys, sorted.
func (s *Session) Hidden() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Keys()
}

// TimelineView is one entry of the timeline index with its color and
// visibility.
type TimelineView struct {
	Key    string         `json:"key"`
	Color  timeline.Color `json:"color"`
	Hidden bool           `json:"hidden"`
	Count  int            `json:"count"`
}

// Timelines returns the index in first-seen order.
func (s *Session) Timelines() []TimelineView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timelines(s.repo.List())
}

func (s *Session) timelines(ms []milestone.Milestone) []TimelineView {
	counts := make(map[string]int)
	for _, m := range ms {
		counts[m.Timeline]++
	}

	index := timeline.Compute(ms)
	views := make([]TimelineView, len(index))
	for i, key := range index {
		views[i] = TimelineView{
			Key:    key,
			Color:  timeline.ColorAt(i),
			Hidden: s.overlay.Hidden(key),
			Count:  counts[key],
		}
	}
	return views
}

// Snapshot is a fully recomputed renderable view.
type Snapshot struct {
	Data    *chart.Dataset `json:"data"`
	Options chart.Options  `json:"options"`
}

// Snapshot recomputes the index, colors and dataset from the current
// collection and overlay.
func (s *Session) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.repo.List()
	index := timeline.Compute(ms)
	ds, err := chart.Build(ms, index, timeline.Assign(index), s.overlay)
	if s.recorder != nil {
		s.recorder.RecordChartBuild(err)
	}
	if err != nil {
		s.logger.Warn("chart build failed", zap.Error(err))
		return nil, err
	}

	return &Snapshot{Data: ds, Options: chart.NewOptions(ds, s.timeUnit)}, nil
}

// Summary holds collection statistics.
type Summary struct {
	Total      int
	Timelines  []TimelineView
	Hidden     []string
	PersistErr error
}

// Summary returns counts per timeline and the persistence state, taken
// from one consistent view of the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.repo.List()
	return Summary{
		Total:      len(ms),
		Timelines:  s.timelines(ms),
		Hidden:     s.overlay.Keys(),
		PersistErr: s.repo.PersistErr(),
	}
}
