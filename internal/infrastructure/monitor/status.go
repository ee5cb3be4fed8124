package monitor

import "time"

type Status struct {
	Storage   bool      `json:"storage"`
	Driver    string    `json:"driver"`
	Error     string    `json:"error,omitempty"`
	LastCheck time.Time `json:"last_check"`
}
