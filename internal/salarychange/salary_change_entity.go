package salarychange

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryChange rows are append-only. The latest change for an employee
// is the one with the highest id.
type SalaryChange struct {
	ID             int64 `gorm:"primaryKey"`
	EmployeeID     int64 `gorm:"index"`
	PreviousSalary *decimal.Decimal `gorm:"type:numeric(12,2)"`
	NewSalary      decimal.Decimal  `gorm:"type:numeric(12,2)"`
	Reason         *string
	ChangeType     string
	CreatedAt      time.Time
}
