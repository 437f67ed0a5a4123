package events

import "time"

const EmploymentStatusChangedTopic = "backoffice.employment.lifecycle.v1"

type EmploymentStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID int64     `json:"employee_id"`
	RecordID   int64     `json:"record_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
