package events

import "time"

// EmployeeCreatedTopic is published by the Employee service.
const EmployeeCreatedTopic = "hr.employee.lifecycle.v1"

const EventTypeEmployeeCreated = "employee_created"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID int64     `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
