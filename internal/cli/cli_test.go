package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
)

type harness struct {
	t    *testing.T
	args []string
}

func newHarness(t *testing.T, driver string) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("API_TOKEN_SECRET", "")

	path := filepath.Join(dir, "data", "tasks.json")
	if driver == "bolt" {
		path = filepath.Join(dir, "data", "tasks.db")
	}
	return &harness{t: t, args: []string{"--driver", driver, "--path", path}}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(append(append([]string{}, args...), h.args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) view() transport.ViewResponse {
	h.t.Helper()
	var view transport.ViewResponse
	require.NoError(h.t, json.Unmarshal([]byte(h.mustRun("list", "-o", "json")), &view))
	return view
}

func TestCLI_Lifecycle(t *testing.T) {
	for _, driver := range []string{"file", "bolt"} {
		t.Run(driver, func(t *testing.T) {
			h := newHarness(t, driver)

			out := h.mustRun("add", "Buy", "milk", "--priority", "high")
			assert.Contains(t, out, "Buy milk")
			assert.Contains(t, out, "1 task, 1 active")

			view := h.view()
			require.Len(t, view.Tasks, 1)
			id := strconv.FormatInt(view.Tasks[0].ID, 10)
			assert.Equal(t, "high", view.Tasks[0].Priority)

			out = h.mustRun("toggle", id)
			assert.Contains(t, out, "Toggled "+id)
			assert.Contains(t, out, "[x]")

			out = h.mustRun("list", "--filter", "active")
			assert.Contains(t, out, transport.EmptyNoMatches)

			out = h.mustRun("edit", id, "--description", "2 litres")
			assert.Contains(t, out, "Updated "+id+": Buy milk")
			out = h.mustRun("edit", id, "--text", "  ")
			assert.Contains(t, out, "Nothing to update for "+id)
			out = h.mustRun("list", "--search", "LITRES")
			assert.Contains(t, out, "Buy milk")

			out = h.mustRun("clear-completed")
			assert.Contains(t, out, "Removed 1 completed")
			assert.Contains(t, out, transport.EmptyNoTasks)
			assert.Contains(t, out, "0 tasks, 0 active")
		})
	}
}

func TestCLI_DueDatesAndOverdue(t *testing.T) {
	h := newHarness(t, "file")

	h.mustRun("add", "later", "--due", "tomorrow")
	h.mustRun("add", "late", "--due", "2001-02-03", "-p", "low")

	view := h.view()
	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "late", view.Tasks[0].Text)
	assert.True(t, view.Tasks[0].Overdue)
	assert.Equal(t, "Feb 3", view.Tasks[0].DueLabel)
	assert.Equal(t, "Tomorrow", view.Tasks[1].DueLabel)
	assert.Equal(t, "2 active • 1 overdue", view.DetailLabel)

	out := h.mustRun("list", "--filter", "overdue", "-o", "yaml")
	assert.Contains(t, out, "text: late")
	assert.Contains(t, out, "count_label: 2 tasks")
	assert.NotContains(t, out, "text: later")
}

func TestCLI_Rejections(t *testing.T) {
	h := newHarness(t, "file")

	_, err := h.run("add", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyText)

	_, err = h.run("add", "x", "--priority", "urgent")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = h.run("add", "x", "--due", "03/04/2024")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = h.run("toggle", "12345")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = h.run("delete", "abc")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = h.run("list", "--filter", "someday")
	assert.ErrorIs(t, err, domain.ErrUnknownFilter)

	_, err = h.run("list", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")

	assert.Empty(t, h.view().Tasks)
}

func TestCLI_Token(t *testing.T) {
	h := newHarness(t, "file")

	_, err := h.run("token")
	assert.ErrorContains(t, err, "API_TOKEN_SECRET")

	t.Setenv("API_TOKEN_SECRET", "s3cret")
	out := h.mustRun("token", "--ttl", "1h")
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))
}
