package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/middleware"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

const annotationNoStore = "no-store"

func (a *app) addCommand() *cobra.Command {
	var priority, due string

	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: high|medium|low (default medium)")
	cmd.Flags().StringVar(&due, "due", "", "Due date as YYYY-MM-DD, today or tomorrow")

	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := domain.ParsePriority(priority)
		if err != nil {
			return err
		}
		dueDate, err := a.parseDue(due)
		if err != nil {
			return err
		}

		t, added, err := a.store.Add(ctx, taskUC.Draft{
			Text:     strings.Join(args, " "),
			Priority: p,
			DueDate:  dueDate,
		})
		if err != nil {
			return err
		}
		if !added {
			return domain.ErrEmptyText
		}
		return a.render(fmt.Sprintf("Added %d: %s", t.ID, t.Text))
	})
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	var filter, search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks, overdue first",
		Args:    cobra.NoArgs,
	}
	cmd.Flags().StringVar(&filter, "filter", string(domain.FilterAll), "Filter: all|active|completed|overdue")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text or description match")

	cmd.RunE = a.run(func(_ context.Context, _ []string) error {
		f, err := domain.ParseFilter(filter)
		if err != nil {
			return err
		}
		a.store.SetFilter(f)
		a.store.SetSearch(search)
		return a.render("")
	})
	return cmd
}

func (a *app) editCommand() *cobra.Command {
	var text, description string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's text or description",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&text, "text", "", "New text; blank keeps the current text")
	cmd.Flags().StringVar(&description, "description", "", "New description; an empty value clears it")

	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		req := taskUC.EditRequest{Text: text}
		if cmd.Flags().Changed("description") {
			req.Description = &description
		}

		edited, err := a.store.Edit(ctx, id, req)
		if err != nil {
			return err
		}
		if !edited.Found {
			return notFound(id)
		}
		if !edited.Changed {
			return a.render(fmt.Sprintf("Nothing to update for %d", id))
		}
		return a.render(fmt.Sprintf("Updated %d: %s", edited.Task.ID, edited.Task.Text))
	})
	return cmd
}

func (a *app) toggleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		found, err := a.store.Toggle(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return notFound(id)
		}
		return a.render(fmt.Sprintf("Toggled %d", id))
	})
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		found, err := a.store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return notFound(id)
		}
		return a.render(fmt.Sprintf("Deleted %d", id))
	})
	return cmd
}

func (a *app) clearCompletedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove all completed tasks",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		removed, err := a.store.ClearCompleted(ctx)
		if err != nil {
			return err
		}
		return a.render(fmt.Sprintf("Removed %d completed", removed))
	})
	return cmd
}

func (a *app) tokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:         "token",
		Short:       "Print an API bearer token signed with API_TOKEN_SECRET",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	cmd.RunE = a.run(func(_ context.Context, _ []string) error {
		if a.cfg.Auth.Secret == "" {
			return fmt.Errorf("API_TOKEN_SECRET is not set")
		}
		token, err := middleware.IssueToken(a.cfg.Auth.Secret, a.cfg.Auth.Issuer, ttl, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, token)
		return nil
	})
	return cmd
}

// parseDue accepts YYYY-MM-DD plus the shortcuts today and tomorrow.
func (a *app) parseDue(raw string) (*domain.Date, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "today":
		d := a.store.Today()
		return &d, nil
	case "tomorrow":
		d := a.store.Today().AddDays(1)
		return &d, nil
	}
	return domain.ParseOptionalDate(raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("invalid task id %q", raw))
	}
	return id, nil
}

func notFound(id int64) error {
	return domain.WrapError(domain.ErrCodeNotFound, fmt.Sprintf("task %d", id), domain.ErrTaskNotFound)
}
