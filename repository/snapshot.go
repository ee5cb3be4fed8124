package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/tasklist/domain"
)

// ErrMalformedSnapshot marks stored state that cannot be decoded at all.
var ErrMalformedSnapshot = errors.New("malformed task snapshot")

// record is the persisted shape of a task. Field names are part of the stored format.
type record struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
}

// EncodeSnapshot serializes tasks in order.
func EncodeSnapshot(tasks []domain.Task) ([]byte, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		rec := record{
			ID:          t.ID,
			Text:        t.Text,
			Description: t.Description,
			Priority:    string(t.Priority),
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		}
		if t.DueDate != nil {
			rec.DueDate = t.DueDate.String()
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// DecodeSnapshot parses a stored blob. Empty input is an empty collection and
// anything other than an array of objects is ErrMalformedSnapshot. Each field is read
// on its own: optional fields that are missing or of the wrong type fall back
// to their defaults, and elements without a readable id and text are skipped.
func DecodeSnapshot(data []byte) ([]domain.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []domain.Task{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	tasks := make([]domain.Task, 0, len(raw))
	for i, item := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedSnapshot, i)
		}
		task, ok := decodeRecord(fields)
		if !ok {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func decodeRecord(fields map[string]json.RawMessage) (domain.Task, bool) {
	id, _ := field[int64](fields, "id")
	text, _ := field[string](fields, "text")
	text = strings.TrimSpace(text)
	if id == 0 || text == "" {
		return domain.Task{}, false
	}

	rawPriority, _ := field[string](fields, "priority")
	priority, err := domain.ParsePriority(rawPriority)
	if err != nil {
		priority = domain.PriorityMedium
	}

	var due *domain.Date
	if rawDue, ok := field[string](fields, "dueDate"); ok {
		if d, err := domain.ParseDate(rawDue); err == nil {
			due = &d
		}
	}

	var created time.Time
	if rawCreated, ok := field[string](fields, "createdAt"); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, rawCreated); err == nil {
			created = parsed
		}
	}
	if created.IsZero() {
		// ids are creation timestamps in milliseconds
		created = time.UnixMilli(id)
	}

	description, _ := field[string](fields, "description")
	completed, _ := field[bool](fields, "completed")

	return domain.Task{
		ID:          id,
		Text:        text,
		Description: description,
		Priority:    priority,
		DueDate:     due,
		Completed:   completed,
		CreatedAt:   created,
	}, true
}

// field decodes fields[key] into T. It reports false when the key is missing,
// null or holds a value of another type.
func field[T any](fields map[string]json.RawMessage, key string) (T, bool) {
	var v T
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
