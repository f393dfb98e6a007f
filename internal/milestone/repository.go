package milestone

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer is notified of repository mutations and persistence failures.
type Observer interface {
	Mutated(op string)
	PersistFailed(err error)
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for mutation and persistence events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithDateOrder enables the start <= end check on add and update.
func WithDateOrder(enforce bool) Option {
	return func(r *Repository) { r.enforceOrder = enforce }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newID = gen }
}

// WithObserver registers an observer for mutations and save failures.
func WithObserver(o Observer) Option {
	return func(r *Repository) { r.observer = o }
}

// Repository owns the milestone collection in insertion order. It is not
// safe for concurrent use; callers serialize access.
type Repository struct {
	store        Storage
	items        []Milestone
	logger       *zap.Logger
	observer     Observer
	newID        func() string
	enforceOrder bool
	persistErr   error
}

// Open loads the collection from store once and returns a ready Repository.
func Open(ctx context.Context, store Storage, opts ...Option) (*Repository, error) {
	r := &Repository{
		store:  store,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	items, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load milestones: %w", err)
	}
	r.items = append([]Milestone{}, items...)
	r.logger.Debug("milestones loaded", zap.Int("count", len(r.items)))

	return r, nil
}

// Add validates f and appends a new milestone with a fresh ID.
func (r *Repository) Add(ctx context.Context, f Fields) (Milestone, error) {
	f, err := r.validate(f)
	if err != nil {
		return Milestone{}, err
	}

	m := fromFields(r.newID(), f)
	r.items = append(r.items, m)
	r.commit(ctx, "add", m.ID)

	return m, nil
}

// Update replaces the fields of the milestone with id, keeping its ID and
// position in the collection.
func (r *Repository) Update(ctx context.Context, id string, f Fields) (Milestone, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Milestone{}, &NotFoundError{ID: id}
	}

	f, err := r.validate(f)
	if err != nil {
		return Milestone{}, err
	}

	m := fromFields(id, f)
	r.items[i] = m
	r.commit(ctx, "update", id)

	return m, nil
}

// Delete removes the milestone with id and reports whether it existed. A
// missing id is not an error and does not save.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}

	r.items = append(r.items[:i:i], r.items[i+1:]...)
	r.commit(ctx, "delete", id)

	return true, nil
}

// Clear removes every milestone and returns how many were removed.
func (r *Repository) Clear(ctx context.Context) int {
	n := len(r.items)
	r.items = []Milestone{}
	r.commit(ctx, "clear", "")
	return n
}

// List returns a copy of the collection in stored order.
func (r *Repository) List() []Milestone {
	out := make([]Milestone, len(r.items))
	copy(out, r.items)
	return out
}

// Get returns the milestone with id.
func (r *Repository) Get(id string) (Milestone, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Milestone{}, &NotFoundError{ID: id}
	}
	return r.items[i], nil
}

// PersistErr returns the error from the most recent save, or nil if it
// succeeded.
func (r *Repository) PersistErr() error {
	return r.persistErr
}

func (r *Repository) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// validate trims the required fields and checks them.
func (r *Repository) validate(f Fields) (Fields, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Timeline = strings.TrimSpace(f.Timeline)
	f.Start = strings.TrimSpace(f.Start)
	f.End = strings.TrimSpace(f.End)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"title", f.Title},
		{"timeline", f.Timeline},
		{"start", f.Start},
		{"end", f.End},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return f, &ValidationError{Fields: missing, Reason: "required field is empty"}
	}

	var malformed []string
	start, err := ParseDate(f.Start)
	if err != nil {
		malformed = append(malformed, "start")
	}
	end, err := ParseDate(f.End)
	if err != nil {
		malformed = append(malformed, "end")
	}
	if len(malformed) > 0 {
		return f, &ValidationError{Fields: malformed, Reason: "not a calendar date (YYYY-MM-DD)"}
	}

	if r.enforceOrder && end.Before(start) {
		return f, &ValidationError{Fields: []string{"start", "end"}, Reason: "start is after end"}
	}

	return f, nil
}

// commit saves the full collection. Save failures are logged and kept for
// PersistErr; the in-memory change stands.
func (r *Repository) commit(ctx context.Context, op, id string) {
	if r.observer != nil {
		r.observer.Mutated(op)
	}

	err := r.store.Save(ctx, r.List())
	r.persistErr = err
	if err != nil {
		r.logger.Error("persist milestones failed",
			zap.String("op", op),
			zap.String("id", id),
			zap.Int("count", len(r.items)),
			zap.Error(err),
		)
		if r.observer != nil {
			r.observer.PersistFailed(err)
		}
		return
	}

	r.logger.Debug("milestones persisted",
		zap.String("op", op),
		zap.String("id", id),
		zap.Int("count", len(r.items)),
	)
}

func fromFields(id string, f Fields) Milestone {
	return Milestone{
		ID:       id,
		Title:    f.Title,
		Timeline: f.Timeline,
		Start:    f.Start,
		End:      f.End,
		Notes:    f.Notes,
	}
}
