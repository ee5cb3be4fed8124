package transport

import (
	"fmt"
	"time"

	"github.com/fastygo/tasklist/domain"
)

const (
	EmptyNoTasks   = "No tasks yet. Add one to get started!"
	EmptyNoMatches = "No tasks found"
)

// TaskView is a task as shown to users.
type TaskView struct {
	ID          int64     `json:"id" yaml:"id"`
	Text        string    `json:"text" yaml:"text"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    string    `json:"priority" yaml:"priority"`
	DueDate     string    `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	DueLabel    string    `json:"due_label,omitempty" yaml:"due_label,omitempty"`
	Completed   bool      `json:"completed" yaml:"completed"`
	Overdue     bool      `json:"overdue" yaml:"overdue"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// ViewResponse is the rendered projection returned after every operation.
type ViewResponse struct {
	Tasks        []TaskView    `json:"tasks" yaml:"tasks"`
	Counts       domain.Counts `json:"counts" yaml:"counts"`
	CountLabel   string        `json:"count_label" yaml:"count_label"`
	DetailLabel  string        `json:"detail_label" yaml:"detail_label"`
	EmptyMessage string        `json:"empty_message,omitempty" yaml:"empty_message,omitempty"`
	Filter       string        `json:"filter" yaml:"filter"`
	Search       string        `json:"search" yaml:"search"`
}

// NewTaskView renders t relative to today.
func NewTaskView(t domain.Task, today domain.Date) TaskView {
	tv := TaskView{
		ID:          t.ID,
		Text:        t.Text,
		Description: t.Description,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		Overdue:     t.IsOverdue(today),
		CreatedAt:   t.CreatedAt,
	}
	if t.DueDate != nil {
		tv.DueDate = t.DueDate.String()
		tv.DueLabel = DueLabel(*t.DueDate, today)
	}
	return tv
}

// NewViewResponse renders v.
func NewViewResponse(v domain.View) ViewResponse {
	resp := ViewResponse{
		Tasks:       make([]TaskView, 0, len(v.Tasks)),
		Counts:      v.Counts,
		CountLabel:  CountLabel(v.Counts.Total),
		DetailLabel: DetailLabel(v.Counts),
		Filter:      string(v.Filter),
		Search:      v.Search,
	}
	for _, t := range v.Tasks {
		resp.Tasks = append(resp.Tasks, NewTaskView(t, v.Today))
	}
	if len(v.Tasks) == 0 {
		resp.EmptyMessage = EmptyMessage(v)
	}
	return resp
}

// CountLabel renders "1 task" or "N tasks".
func CountLabel(total int) string {
	if total == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", total)
}

// DetailLabel renders the active count and, when non-zero, the overdue count.
func DetailLabel(c domain.Counts) string {
	detail := fmt.Sprintf("%d active", c.Active)
	if c.Overdue > 0 {
		detail += fmt.Sprintf(" • %d overdue", c.Overdue)
	}
	return detail
}

// EmptyMessage tells "nothing stored" apart from "nothing matches".
func EmptyMessage(v domain.View) string {
	if v.Narrowed() {
		return EmptyNoMatches
	}
	return EmptyNoTasks
}

// DueLabel renders Today, Tomorrow, or a short month-day such as "Jan 2".
func DueLabel(due, today domain.Date) string {
	switch due {
	case today:
		return "Today"
	case today.AddDays(1):
		return "Tomorrow"
	}
	return due.In(time.UTC).Format("Jan 2")
}
