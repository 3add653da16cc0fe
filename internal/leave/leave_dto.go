package leave

type CreateLeaveRequest struct {
	EmployeeID int64  `json:"employee_id" binding:"required,gt=0"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=annual sick casual maternity paternity unpaid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"max=500"`
	// Status is accepted for compatibility and ignored: new leaves are always pending.
	Status string `json:"status"`
}

type UpdateLeaveStatusRequest struct {
	Status          string  `json:"status" binding:"required,oneof=pending approved rejected cancelled"`
	ApprovedBy      *int64  `json:"approved_by"`
	RejectionReason *string `json:"rejection_reason" binding:"omitempty,max=500"`
}

type ListLeavesRequest struct {
	Status string
	Offset int
	Limit  int
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      int64   `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *int64  `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type LeaveListResponse struct {
	Items  []LeaveResponse
	Total  int64
	Offset int
	Limit  int
}
