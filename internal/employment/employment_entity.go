package employment

import "time"

const (
	StatusActive     = "active"
	StatusResigned   = "resigned"
	StatusTerminated = "terminated"
	StatusRejoined   = "rejoined"
)

// EmploymentRecord rows are append-only. The latest record for an
// employee (highest id) defines their current employment status.
type EmploymentRecord struct {
	ID          int64 `gorm:"primaryKey"`
	EmployeeID  int64 `gorm:"index"`
	Designation string
	Shift       string
	Status      string `gorm:"type:varchar(20)"`
	JoinedAt    time.Time
	ResignedAt  *time.Time
	ChangeType  string
	CreatedAt   time.Time
}

func isKnownStatus(status string) bool {
	switch status {
	case StatusActive, StatusResigned, StatusTerminated, StatusRejoined:
		return true
	}
	return false
}

// leavesEmployed reports whether the status keeps the employee on
// payroll. Note the ledger does not restrict which status may follow
// which; any transition is accepted.
func leavesEmployed(status string) bool {
	return status == StatusActive || status == StatusRejoined
}
