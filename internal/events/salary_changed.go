package events

import "time"

const SalaryChangedTopic = "backoffice.salary.changed.v1"

type SalaryChangedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID int64     `json:"employee_id"`
	ChangeID   int64     `json:"change_id"`
	NewSalary  string    `json:"new_salary"`
	OccurredAt time.Time `json:"occurred_at"`
}
