package payroll

type RefreshPayrollsRequest struct {
	Period string `json:"period"`
}

type RefreshPayrollsResponse struct {
	Period            string  `json:"period"`
	Created           int     `json:"created"`
	Skipped           int     `json:"skipped"`
	FailedEmployeeIDs []int64 `json:"failed_employee_ids"`
}

type SettlePayrollsRequest struct {
	PayrollIDs []int64 `json:"payroll_ids" binding:"required"`
}

type SettlePayrollsResponse struct {
	Message     string `json:"message"`
	RowsUpdated int64  `json:"rows_updated"`
}

type AdjustPayrollRequest struct {
	Bonus   string `json:"bonus" binding:"required"`
	Penalty string `json:"penalty" binding:"required"`
}

type PayrollResponse struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	Month      string  `json:"month"`
	BasicPay   string  `json:"basic_pay"`
	Bonus      string  `json:"bonus"`
	Penalty    string  `json:"penalty"`
	TotalPay   string  `json:"total_pay"`
	PaidAt     *string `json:"paid_at"`
}

type PayrollSummaryResponse struct {
	EmployeeID  int64  `json:"employee_id"`
	TotalPaid   string `json:"total_paid"`
	TotalUnpaid string `json:"total_unpaid"`
	UnpaidCount int64  `json:"unpaid_count"`
}

type EmployeePayrollsResponse struct {
	Payrolls []PayrollResponse      `json:"payrolls"`
	Summary  PayrollSummaryResponse `json:"summary"`
}
