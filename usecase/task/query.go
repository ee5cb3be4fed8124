package task

import (
	"sort"
	"strings"

	"github.com/fastygo/tasklist/domain"
)

func project(tasks []domain.Task, filter domain.Filter, search string, today domain.Date) domain.View {
	if filter == "" {
		filter = domain.FilterAll
	}
	needle := strings.ToLower(search)

	selected := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		if !matchesFilter(t, filter, today) {
			continue
		}
		selected = append(selected, t.Clone())
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return less(selected[i], selected[j], today)
	})

	return domain.View{
		Tasks:  selected,
		Counts: count(tasks, today),
		Filter: filter,
		Search: search,
		Today:  today,
	}
}

func matchesSearch(t domain.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Text), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func matchesFilter(t domain.Task, filter domain.Filter, today domain.Date) bool {
	switch filter {
	case domain.FilterActive:
		return !t.Completed
	case domain.FilterCompleted:
		return t.Completed
	case domain.FilterOverdue:
		return t.IsOverdue(today)
	default:
		return true
	}
}

// less orders overdue tasks first, then by priority, then newest first.
func less(a, b domain.Task, today domain.Date) bool {
	aOverdue, bOverdue := a.IsOverdue(today), b.IsOverdue(today)
	if aOverdue != bOverdue {
		return aOverdue
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func count(tasks []domain.Task, today domain.Date) domain.Counts {
	c := domain.Counts{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Completed {
			c.Completed++
		}
		if tasks[i].IsOverdue(today) {
			c.Overdue++
		}
	}
	c.Active = c.Total - c.Completed
	return c
}
