package transport

type TaskRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date"`
}

// EditRequest leaves the description untouched when it is absent from the body.
type EditRequest struct {
	Text        string  `json:"text"`
	Description *string `json:"description"`
}

// ViewRequest updates only the fields that are present.
type ViewRequest struct {
	Filter *string `json:"filter"`
	Search *string `json:"search"`
}
