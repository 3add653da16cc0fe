package leave

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
	"unicode/utf8"

	"leave-service/internal/events"
	leaveerrors "leave-service/internal/leave/errors"
	"leave-service/internal/shared/apperror"
	"leave-service/internal/shared/contextutil"
	"leave-service/internal/shared/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeVerifier answers whether an employee id is known to the organisation.
type EmployeeVerifier interface {
	Exists(ctx context.Context, employeeID int64) bool
}

// Notifier receives lifecycle events after they are committed. It must not block.
type Notifier interface {
	Notify(ctx context.Context, event events.LeaveEvent) error
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, req ListLeavesRequest) (LeaveListResponse, error)
	GetByEmployee(ctx context.Context, employeeID int64, req ListLeavesRequest) (LeaveListResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateLeaveStatusRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id string) (LeaveResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	verifier EmployeeVerifier
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, verifier EmployeeVerifier, notifier Notifier, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		verifier: verifier,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create leave requested",
		zap.Int64("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, err := validateCreateRequest(req)
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if !s.verifier.Exists(ctx, req.EmployeeID) {
		log.Warn("create leave unknown employee", zap.Int64("employee_id", req.EmployeeID))
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Internal(err)
	}
	defer tx.Rollback()

	now := s.now()
	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: req.EmployeeID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.WithTx(tx).Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, apperror.Internal(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Internal(err)
	}
	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.Int64("employee_id", l.EmployeeID),
	)

	s.notify(ctx, events.LeaveCreated, l, map[string]any{
		"leave_type": l.LeaveType,
		"start_date": l.StartDate.Format(time.RFC3339),
		"end_date":   l.EndDate.Format(time.RFC3339),
		"reason":     l.Reason,
	})

	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("get leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Internal(err)
	}
	return mapToResponse(*l), nil
}

func (s *service) List(ctx context.Context, req ListLeavesRequest) (LeaveListResponse, error) {
	return s.list(ctx, nil, req)
}

func (s *service) GetByEmployee(ctx context.Context, employeeID int64, req ListLeavesRequest) (LeaveListResponse, error) {
	if !s.verifier.Exists(ctx, employeeID) {
		return LeaveListResponse{}, leaveerrors.ErrUnknownEmployee
	}
	return s.list(ctx, &employeeID, req)
}

func (s *service) list(ctx context.Context, employeeID *int64, req ListLeavesRequest) (LeaveListResponse, error) {
	page, err := pagination.Normalize(req.Offset, req.Limit)
	if err != nil {
		return LeaveListResponse{}, leaveerrors.ErrInvalidPagination
	}
	if req.Status != "" && !IsValidStatus(req.Status) {
		return LeaveListResponse{}, leaveerrors.ErrInvalidStatus
	}

	leaves, total, err := s.repo.List(ctx, ListFilter{
		EmployeeID: employeeID,
		Status:     req.Status,
		Offset:     page.Offset,
		Limit:      page.Limit,
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leaves failed", zap.Error(err))
		return LeaveListResponse{}, apperror.Internal(err)
	}

	return LeaveListResponse{
		Items:  mapToListResponse(leaves),
		Total:  total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}, nil
}

func (s *service) Cancel(ctx context.Context, id string) (LeaveResponse, error) {
	return s.UpdateStatus(ctx, id, UpdateLeaveStatusRequest{Status: StatusCancelled})
}

// UpdateStatus checks, in order: the leave exists, the transition is legal,
// and the fields the target status needs are present. Nothing is written
// unless all three hold.
func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateLeaveStatusRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update leave status requested",
		zap.String("leave_id", id),
		zap.String("target_status", req.Status),
	)

	if !IsValidStatus(req.Status) {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Internal(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		log.Error("update leave status load failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Internal(err)
	}

	previousStatus := l.Status
	if !IsAllowedStatusTransition(previousStatus, req.Status) {
		log.Warn("update leave status invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", previousStatus),
			zap.String("to_status", req.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	now := s.now()
	payload := map[string]any{"previous_status": previousStatus}
	var eventType string

	switch req.Status {
	case StatusApproved:
		if req.ApprovedBy == nil || *req.ApprovedBy <= 0 {
			return LeaveResponse{}, leaveerrors.ErrApprovedByRequired
		}
		approvedBy := *req.ApprovedBy
		l.ApprovedBy = &approvedBy
		l.ApprovedAt = &now
		payload["approved_by"] = approvedBy
		eventType = events.LeaveApproved
	case StatusRejected:
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
		reason := *req.RejectionReason
		l.RejectionReason = &reason
		payload["rejection_reason"] = reason
		eventType = events.LeaveRejected
	case StatusCancelled:
		eventType = events.LeaveCancelled
	}

	l.Status = req.Status
	l.UpdatedAt = now

	if err := qtx.UpdateStatus(ctx, l); err != nil {
		log.Error("update leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", req.Status),
			zap.Error(err),
		)
		return LeaveResponse{}, apperror.Internal(err)
	}
	if err := tx.Commit(); err != nil {
		log.Error("update leave status commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Internal(err)
	}
	log.Info("update leave status success",
		zap.String("leave_id", id),
		zap.String("from_status", previousStatus),
		zap.String("status", l.Status),
	)

	s.notify(ctx, eventType, l, payload)

	return mapToResponse(*l), nil
}

// notify hands the event off without waiting. A notifier failure is logged;
// the committed transition stands.
func (s *service) notify(ctx context.Context, eventType string, l *Leave, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	meta := contextutil.ExtractMetadata(ctx)
	if meta.ActorID != "" {
		payload["actor_id"] = meta.ActorID
	}
	event := events.LeaveEvent{
		EventType:  eventType,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID,
		Timestamp:  l.UpdatedAt,
		RequestID:  meta.RequestID,
		Payload:    payload,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("leave notification dropped",
			zap.String("event_type", eventType),
			zap.String("leave_id", event.LeaveID),
			zap.Error(err),
		)
	}
}

func validateCreateRequest(req CreateLeaveRequest) (time.Time, time.Time, error) {
	if !IsValidType(req.LeaveType) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if utf8.RuneCountInString(req.Reason) > MaxReasonLength {
		return time.Time{}, time.Time{}, leaveerrors.ErrReasonTooLong
	}
	return startDate, endDate, nil
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t.UTC(), nil
}

func ParseEmployeeID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, leaveerrors.ErrInvalidEmployeeID
	}
	return id, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(time.RFC3339),
		EndDate:         l.EndDate.Format(time.RFC3339),
		Reason:          l.Reason,
		Status:          l.Status,
		ApprovedBy:      l.ApprovedBy,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
