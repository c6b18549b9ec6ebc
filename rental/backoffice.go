package rental

import "time"

// =============================================================================
// BACK-OFFICE RECORDS - Customers and operational tasks
// =============================================================================
// These records are plumbing around the reporting engines: the engines never
// read them, but the back office manages them alongside bookings.

type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Note      string
	CreatedAt time.Time
}

type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskDone TaskStatus = "done"
)

// Task is an operational to-do tied to a property: cleaning between stays,
// repairs, inventory checks.
type Task struct {
	ID         string
	PropertyID string
	Title      string
	DueDate    time.Time
	Status     TaskStatus
	CreatedAt  time.Time
}
