package salarychange

type AppendSalaryChangeRequest struct {
	PreviousSalary *string `json:"previous_salary"`
	NewSalary      string  `json:"new_salary" binding:"required"`
	Reason         *string `json:"reason"`
	ChangeType     string  `json:"change_type" binding:"required"`
}

type AppendSalaryChangeResponse struct {
	Message          string `json:"message"`
	InsertedID       int64  `json:"inserted_id"`
	EmployeesUpdated int64  `json:"employees_updated"`
}

type SalaryChangeResponse struct {
	ID             int64   `json:"id"`
	EmployeeID     int64   `json:"employee_id"`
	PreviousSalary *string `json:"previous_salary"`
	NewSalary      string  `json:"new_salary"`
	Reason         *string `json:"reason"`
	ChangeType     string  `json:"change_type"`
	CreatedAt      string  `json:"created_at"`
}
