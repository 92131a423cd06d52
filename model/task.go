package model

import "time"

// Task is a lightweight to-do item linked to a process.
type Task struct {
	ID          string    `json:"id"`
	ProcessID   string    `json:"process_id"`
	Title       string    `json:"title"`
	Responsible string    `json:"responsible,omitempty"`
	DueDate     string    `json:"due_date,omitempty"` // calendar date, 2006-01-02
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
}
