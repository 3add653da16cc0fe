package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeCasual    = "casual"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
	TypeUnpaid    = "unpaid"
)

const MaxReasonLength = 500

// Leave rows are never deleted; cancellation is a status.
// EmployeeID is checked against the registry at request time, not by a foreign key.
type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID int64     `gorm:"not null;index:idx_leaves_employee_status"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Reason    string    `gorm:"type:varchar(500)"`

	Status          string  `gorm:"type:varchar(20);not null;default:'pending';index:idx_leaves_employee_status;index:idx_leaves_status"`
	ApprovedBy      *int64  `gorm:""`
	RejectionReason *string `gorm:"type:text"`

	CreatedAt  time.Time `gorm:"index:idx_leaves_created_at"`
	UpdatedAt  time.Time
	ApprovedAt *time.Time
}

func IsValidType(t string) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeCasual, TypeMaternity, TypePaternity, TypeUnpaid:
		return true
	}
	return false
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsAllowedStatusTransition reports whether from -> to is a legal move.
// rejected and cancelled are terminal.
func IsAllowedStatusTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusCancelled
	default:
		return false
	}
}

