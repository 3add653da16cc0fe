package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveCreated   = "leave.created"
	LeaveApproved  = "leave.approved"
	LeaveRejected  = "leave.rejected"
	LeaveCancelled = "leave.cancelled"
)

// LeaveEvent is the record handed to the side-effect notifier on every leave
// state transition.
type LeaveEvent struct {
	EventType  string         `json:"event_type"`
	LeaveID    string         `json:"leave_id"`
	EmployeeID int64          `json:"employee_id"`
	Timestamp  time.Time      `json:"timestamp"`
	RequestID  string         `json:"request_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}
