// Package task owns the in-memory task collection and its view state.
//
// A Store is not safe for concurrent use. Concurrent adapters must serialize
// calls, for example through usecase.Dispatcher.
package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

// Draft carries the user input for a new task.
type Draft struct {
	Text     string
	Priority domain.Priority
	DueDate  *domain.Date
}

// EditRequest carries the new values for an existing task.
// A nil Description leaves the description untouched.
type EditRequest struct {
	Text        string
	Description *string
}

// EditResult reports what Edit did. Changed is false when the task is missing
// or the request carried nothing to commit.
type EditResult struct {
	Task    domain.Task
	Found   bool
	Changed bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now. The clock's location defines "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

type Store struct {
	repo   repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time

	tasks  []domain.Task
	lastID int64
	filter domain.Filter
	search string
}

// New builds a Store and hydrates it from repo. Stored state that cannot be
// loaded yields an empty collection.
func New(ctx context.Context, repo repository.TaskRepository, logger *zap.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		filter: domain.FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}

	if repo == nil {
		return nil, domain.NewError(domain.ErrCodeInternal, "task repository is required")
	}

	loaded, err := repo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrMalformedSnapshot):
		s.logger.Warn("stored tasks malformed, starting empty", zap.Error(err))
		loaded = nil
	case err != nil:
		s.logger.Error("stored tasks unreadable, starting empty", zap.Error(err))
		loaded = nil
	}
	s.hydrate(loaded)
	s.logger.Info("task store ready", zap.Int("tasks", len(s.tasks)))
	return s, nil
}

func (s *Store) hydrate(loaded []domain.Task) {
	seen := make(map[int64]struct{}, len(loaded))
	s.tasks = make([]domain.Task, 0, len(loaded))
	for _, t := range loaded {
		if _, dup := seen[t.ID]; dup {
			s.logger.Warn("dropping task with duplicate id", zap.Int64("id", t.ID))
			continue
		}
		seen[t.ID] = struct{}{}
		s.tasks = append(s.tasks, t.Clone())
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
}

// Add appends a new task. Text that trims to empty is declined without a write.
func (s *Store) Add(ctx context.Context, draft Draft) (domain.Task, bool, error) {
	text := strings.TrimSpace(draft.Text)
	if text == "" {
		return domain.Task{}, false, nil
	}

	priority, err := domain.ParsePriority(string(draft.Priority))
	if err != nil {
		priority = domain.PriorityMedium
	}

	now := s.now()
	t := domain.Task{
		ID:        s.nextID(now),
		Text:      text,
		Priority:  priority,
		CreatedAt: now,
	}
	if draft.DueDate != nil {
		due := *draft.DueDate
		t.DueDate = &due
	}

	s.tasks = append(s.tasks, t)
	s.logger.Debug("task added", zap.Int64("id", t.ID))
	return t.Clone(), true, s.persist(ctx, "add")
}

// Toggle flips the completion flag. Unknown ids are ignored.
func (s *Store) Toggle(ctx context.Context, id int64) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Debug("task toggled", zap.Int64("id", id), zap.Bool("completed", s.tasks[i].Completed))
	return true, s.persist(ctx, "toggle")
}

// Edit commits req atomically. Text is only replaced when it trims to non-empty;
// a supplied description is trimmed and stored even when empty.
func (s *Store) Edit(ctx context.Context, id int64, req EditRequest) (EditResult, error) {
	i := s.indexOf(id)
	if i < 0 {
		return EditResult{}, nil
	}

	t := &s.tasks[i]
	changed := false
	if text := strings.TrimSpace(req.Text); text != "" {
		t.Text = text
		changed = true
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
		changed = true
	}
	if !changed {
		return EditResult{Task: t.Clone(), Found: true}, nil
	}

	s.logger.Debug("task edited", zap.Int64("id", id))
	return EditResult{Task: t.Clone(), Found: true, Changed: true}, s.persist(ctx, "edit")
}

// Delete removes a task. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("task deleted", zap.Int64("id", id))
	return true, s.persist(ctx, "delete")
}

// ClearCompleted removes every completed task, keeping the others in order.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept
	if removed == 0 {
		return 0, nil
	}
	s.logger.Debug("completed tasks cleared", zap.Int("removed", removed))
	return removed, s.persist(ctx, "clear_completed")
}

// SetFilter changes the status filter used by Query.
func (s *Store) SetFilter(filter domain.Filter) {
	if filter == "" {
		filter = domain.FilterAll
	}
	s.filter = filter
}

// SetSearch changes the search text used by Query.
func (s *Store) SetSearch(search string) {
	s.search = search
}

func (s *Store) Filter() domain.Filter { return s.filter }

func (s *Store) Search() string { return s.search }

// Today is the current calendar day according to the store clock.
func (s *Store) Today() domain.Date {
	return domain.DateOf(s.now())
}

// Query returns the filtered, sorted and counted view. It has no side effects.
func (s *Store) Query() domain.View {
	return project(s.tasks, s.filter, s.search, s.Today())
}

// QueryWith projects the collection with filter and search, each falling back
// to the stored view state when nil. The view state is left untouched.
func (s *Store) QueryWith(filter *domain.Filter, search *string) domain.View {
	f, q := s.filter, s.search
	if filter != nil {
		f = *filter
	}
	if search != nil {
		q = *search
	}
	return project(s.tasks, f, q, s.Today())
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Flush writes the current collection regardless of pending changes.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist(ctx, "flush")
}

func (s *Store) persist(ctx context.Context, operation string) error {
	if err := s.repo.Save(ctx, s.Snapshot()); err != nil {
		s.logger.Error("failed to persist tasks", zap.String("operation", operation), zap.Error(err))
		return domain.WrapError(domain.ErrCodeInternal, "persist tasks", err)
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives the id from the creation time in milliseconds and bumps it
// past the last issued id when two tasks share a millisecond.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
