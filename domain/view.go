package domain

// Filter selects which tasks a view contains.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

// ParseFilter validates user input. Empty input means FilterAll.
func ParseFilter(value string) (Filter, error) {
	switch Filter(value) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted, FilterOverdue:
		return Filter(value), nil
	default:
		return "", WrapError(ErrCodeInvalid, "unknown filter "+value, ErrUnknownFilter)
	}
}

// Counts summarizes the whole task collection, independent of filter and search.
type Counts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// View is the filtered, sorted and counted projection of the collection.
type View struct {
	Tasks  []Task `json:"tasks"`
	Counts Counts `json:"counts"`
	Filter Filter `json:"filter"`
	Search string `json:"search"`
	Today  Date   `json:"today"`
}

// Narrowed reports whether a search or a non-default filter is in effect.
func (v View) Narrowed() bool {
	return v.Search != "" || (v.Filter != "" && v.Filter != FilterAll)
}
