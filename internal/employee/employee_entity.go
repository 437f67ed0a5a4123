package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee carries the denormalized projection of the two ledgers:
// CurrentSalary is NULL unless the latest employment record leaves the
// employee effectively employed. Only ledger appends may change it.
type Employee struct {
	ID             int64  `gorm:"primaryKey"`
	EmployeeNumber string `gorm:"uniqueIndex"`
	FullName       string
	Email          string           `gorm:"uniqueIndex"`
	CurrentSalary  *decimal.Decimal `gorm:"type:numeric(12,2)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
