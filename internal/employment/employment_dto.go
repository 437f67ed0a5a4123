package employment

type AppendEmploymentRecordRequest struct {
	Designation string  `json:"designation" binding:"required"`
	Shift       string  `json:"shift" binding:"required"`
	Status      string  `json:"status" binding:"required"`
	JoinedAt    string  `json:"joined_at" binding:"required"`
	ResignedAt  *string `json:"resigned_at"`
	ChangeType  string  `json:"change_type" binding:"required"`
}

type AppendEmploymentRecordResponse struct {
	Message    string `json:"message"`
	InsertedID int64  `json:"inserted_id"`
}

type EmploymentRecordResponse struct {
	ID          int64   `json:"id"`
	EmployeeID  int64   `json:"employee_id"`
	Designation string  `json:"designation"`
	Shift       string  `json:"shift"`
	Status      string  `json:"status"`
	JoinedAt    string  `json:"joined_at"`
	ResignedAt  *string `json:"resigned_at"`
	ChangeType  string  `json:"change_type"`
	CreatedAt   string  `json:"created_at"`
}
