package domain

import "time"

// Event is an analytics event (category/action/label, as tracked by web analytics).
type Event struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Action   string    `json:"action"`
	Label    string    `json:"label"`
	At       time.Time `json:"at"`
}
