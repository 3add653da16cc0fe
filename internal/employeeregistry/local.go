package employeeregistry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Employee is a row of the local employee replica. Only the id matters here.
type Employee struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

func (Employee) TableName() string { return "employees" }

var ErrAlreadyReplicated = errors.New("employee already replicated")

// LocalSource is the fallback store: a read-only view of the local replica.
type LocalSource struct {
	db *gorm.DB
}

func NewLocalSource(db *gorm.DB) *LocalSource {
	return &LocalSource{db: db}
}

func (s *LocalSource) Name() string { return "local" }

func (s *LocalSource) Lookup(ctx context.Context, employeeID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", employeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ping checks that the replica is reachable and migrated. The service must
// not start without it.
func (s *LocalSource) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("fallback store: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("fallback store unreachable: %w", err)
	}
	if !s.db.WithContext(ctx).Migrator().HasTable(&Employee{}) {
		return fmt.Errorf("fallback store: table %q is missing", Employee{}.TableName())
	}
	return nil
}

// ReplicaStore writes into the replica. It is used by the employee lifecycle
// consumer, never by the verifier.
type ReplicaStore struct {
	db *gorm.DB
}

func NewReplicaStore(db *gorm.DB) *ReplicaStore {
	return &ReplicaStore{db: db}
}

func (r *ReplicaStore) Add(ctx context.Context, employeeID int64) error {
	err := r.db.WithContext(ctx).Create(&Employee{ID: employeeID}).Error
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyReplicated
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
