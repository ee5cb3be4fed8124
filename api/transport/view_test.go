package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklist/domain"
)

var today = domain.Date{Year: 2024, Month: time.December, Day: 31}

func TestCountLabels(t *testing.T) {
	assert.Equal(t, "0 tasks", CountLabel(0))
	assert.Equal(t, "1 task", CountLabel(1))
	assert.Equal(t, "7 tasks", CountLabel(7))

	assert.Equal(t, "1 active", DetailLabel(domain.Counts{Total: 1, Active: 1}))
	assert.Equal(t, "3 active • 2 overdue", DetailLabel(domain.Counts{Total: 4, Active: 3, Overdue: 2}))
}

func TestDueLabel(t *testing.T) {
	assert.Equal(t, "Today", DueLabel(today, today))
	assert.Equal(t, "Tomorrow", DueLabel(domain.Date{Year: 2025, Month: time.January, Day: 1}, today))
	assert.Equal(t, "Jan 2", DueLabel(domain.Date{Year: 2025, Month: time.January, Day: 2}, today))
	assert.Equal(t, "Dec 30", DueLabel(domain.Date{Year: 2024, Month: time.December, Day: 30}, today))
}

func TestNewViewResponse(t *testing.T) {
	late := domain.Date{Year: 2024, Month: time.December, Day: 1}
	v := domain.View{
		Tasks: []domain.Task{
			{ID: 1, Text: "Buy milk", Priority: domain.PriorityHigh, DueDate: &late},
		},
		Counts: domain.Counts{Total: 1, Active: 1, Overdue: 1},
		Filter: domain.FilterAll,
		Today:  today,
	}

	resp := NewViewResponse(v)
	require.Len(t, resp.Tasks, 1)
	assert.True(t, resp.Tasks[0].Overdue)
	assert.Equal(t, "2024-12-01", resp.Tasks[0].DueDate)
	assert.Equal(t, "Dec 1", resp.Tasks[0].DueLabel)
	assert.Equal(t, "high", resp.Tasks[0].Priority)
	assert.Equal(t, "1 task", resp.CountLabel)
	assert.Equal(t, "1 active • 1 overdue", resp.DetailLabel)
	assert.Empty(t, resp.EmptyMessage)
}

func TestEmptyMessages(t *testing.T) {
	assert.Equal(t, EmptyNoTasks, NewViewResponse(domain.View{Filter: domain.FilterAll}).EmptyMessage)
	assert.Equal(t, EmptyNoMatches, NewViewResponse(domain.View{Filter: domain.FilterOverdue}).EmptyMessage)
	assert.Equal(t, EmptyNoMatches, NewViewResponse(domain.View{Filter: domain.FilterAll, Search: "x"}).EmptyMessage)

	resp := NewViewResponse(domain.View{})
	assert.NotNil(t, resp.Tasks)
}
