package events

import "time"

const PayrollSettledTopic = "backoffice.payroll.settled.v1"

type PayrollSettledEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID int64     `json:"employee_id"`
	PayrollIDs []int64   `json:"payroll_ids"`
	SettledBy  string    `json:"settled_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
