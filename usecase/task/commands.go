package task

import (
	"context"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/usecase"
)

// Dispatcher command and query names served by a Store.
const (
	CommandAdd            = "task.add"
	CommandEdit           = "task.edit"
	CommandToggle         = "task.toggle"
	CommandDelete         = "task.delete"
	CommandClearCompleted = "task.clear_completed"
	CommandSetView        = "view.set"
	CommandFlush          = "task.flush"

	QueryView     = "view.get"
	QueryProject  = "view.project"
	QuerySnapshot = "task.snapshot"
)

type EditCommand struct {
	ID int64
	EditRequest
}

type IDCommand struct {
	ID int64
}

// ViewCommand carries view state for CommandSetView and QueryProject; nil
// fields keep the stored value.
type ViewCommand struct {
	Filter *domain.Filter
	Search *string
}

// Result is returned by every command. View is computed after the mutation,
// inside the same dispatcher turn.
type Result struct {
	Applied bool
	Task    *domain.Task
	Removed int
	View    domain.View
}

// Register binds the store's operations to d.
func (s *Store) Register(d *usecase.Dispatcher) {
	d.RegisterCommand(CommandAdd, func(ctx context.Context, payload interface{}) (interface{}, error) {
		draft, ok := payload.(Draft)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		t, added, err := s.Add(ctx, draft)
		res := Result{Applied: added, View: s.Query()}
		if added {
			res.Task = &t
		}
		return res, err
	})

	d.RegisterCommand(CommandEdit, func(ctx context.Context, payload interface{}) (interface{}, error) {
		cmd, ok := payload.(EditCommand)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		edited, err := s.Edit(ctx, cmd.ID, cmd.EditRequest)
		res := Result{Applied: edited.Changed, View: s.Query()}
		if edited.Found {
			res.Task = &edited.Task
		}
		return res, err
	})

	d.RegisterCommand(CommandToggle, func(ctx context.Context, payload interface{}) (interface{}, error) {
		cmd, ok := payload.(IDCommand)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		found, err := s.Toggle(ctx, cmd.ID)
		return Result{Applied: found, View: s.Query()}, err
	})

	d.RegisterCommand(CommandDelete, func(ctx context.Context, payload interface{}) (interface{}, error) {
		cmd, ok := payload.(IDCommand)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		found, err := s.Delete(ctx, cmd.ID)
		return Result{Applied: found, View: s.Query()}, err
	})

	d.RegisterCommand(CommandClearCompleted, func(ctx context.Context, _ interface{}) (interface{}, error) {
		removed, err := s.ClearCompleted(ctx)
		return Result{Applied: removed > 0, Removed: removed, View: s.Query()}, err
	})

	d.RegisterCommand(CommandSetView, func(_ context.Context, payload interface{}) (interface{}, error) {
		cmd, ok := payload.(ViewCommand)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		if cmd.Filter != nil {
			s.SetFilter(*cmd.Filter)
		}
		if cmd.Search != nil {
			s.SetSearch(*cmd.Search)
		}
		return Result{Applied: true, View: s.Query()}, nil
	})

	d.RegisterCommand(CommandFlush, func(ctx context.Context, _ interface{}) (interface{}, error) {
		err := s.Flush(ctx)
		return Result{Applied: err == nil, View: s.Query()}, err
	})

	d.RegisterQuery(QueryView, func(context.Context, interface{}) (interface{}, error) {
		return s.Query(), nil
	})

	d.RegisterQuery(QueryProject, func(_ context.Context, params interface{}) (interface{}, error) {
		cmd, ok := params.(ViewCommand)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		return s.QueryWith(cmd.Filter, cmd.Search), nil
	})

	d.RegisterQuery(QuerySnapshot, func(context.Context, interface{}) (interface{}, error) {
		return s.Snapshot(), nil
	})
}
