package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord is unique per (employee_id, month). TotalPay is always
// derived as basic_pay + bonus - penalty; it is never set directly.
// Once PaidAt is set it is never cleared.
type PayrollRecord struct {
	ID         int64  `gorm:"primaryKey"`
	EmployeeID int64  `gorm:"not null;index:idx_employee_month,unique"`
	Month      string `gorm:"type:char(7);not null;index:idx_employee_month,unique"`

	// Amounts stored as numeric to avoid floating error.
	BasicPay decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Bonus    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Penalty  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalPay decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	PaidAt    *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const monthLayout = "2006-01"

func totalPay(basic, bonus, penalty decimal.Decimal) decimal.Decimal {
	return basic.Add(bonus).Sub(penalty)
}
