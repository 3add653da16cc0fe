package employeeregistry_test

import (
	"context"
	"errors"
	"testing"

	"leave-service/internal/employeeregistry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func TestLocalSource_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		gdb, mock := setupGormMock(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "employees" WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := employeeregistry.NewLocalSource(gdb).Lookup(ctx, 1)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		gdb, mock := setupGormMock(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "employees"`).
			WithArgs(int64(99999)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := employeeregistry.NewLocalSource(gdb).Lookup(ctx, 99999)

		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("store error", func(t *testing.T) {
		gdb, mock := setupGormMock(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "employees"`).
			WillReturnError(errors.New("connection refused"))

		_, err := employeeregistry.NewLocalSource(gdb).Lookup(ctx, 1)

		assert.Error(t, err)
	})
}
