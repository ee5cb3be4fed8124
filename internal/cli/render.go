package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/fastygo/tasklist/api/transport"
)

// render prints the current view in the selected format. The status line is
// only shown in table output so json and yaml stay machine readable.
func (a *app) render(status string) error {
	view := transport.NewViewResponse(a.store.Query())

	switch a.flags.output {
	case OutputJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case OutputYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		if status != "" {
			fmt.Fprintln(a.out, status)
		}
		return writeTable(a.out, view)
	}
}

func writeTable(out io.Writer, view transport.ViewResponse) error {
	if len(view.Tasks) == 0 {
		fmt.Fprintln(out, view.EmptyMessage)
	} else {
		w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDONE\tPRI\tDUE\tTEXT")
		for _, t := range view.Tasks {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, doneMark(t), t.Priority, dueColumn(t), t.Text)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%s, %s\n", view.CountLabel, view.DetailLabel)
	return err
}

func doneMark(t transport.TaskView) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func dueColumn(t transport.TaskView) string {
	switch {
	case t.DueLabel == "":
		return "-"
	case t.Overdue:
		return t.DueLabel + " (overdue)"
	default:
		return t.DueLabel
	}
}
