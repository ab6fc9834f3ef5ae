package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hireloop-dev/hireloop/internal/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})

	return gdb, mock
}

func applicationColumns() []string {
	return []string{"id", "created_at", "updated_at", "deleted_at", "job_id", "applicant_id", "status"}
}

func TestApplicationStoreCreate(t *testing.T) {
	t.Run("inserts a pending application", func(t *testing.T) {
		gdb, mock := newTestDB(t)
		store := NewApplicationStore(gdb)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "applications"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		application, err := store.Create(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.Equal(t, uint(1), application.ID)
		assert.Equal(t, types.StatusPending, application.Status)
	})

	t.Run("maps a unique violation to ErrAlreadyApplied", func(t *testing.T) {
		gdb, mock := newTestDB(t)
		store := NewApplicationStore(gdb)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "applications"`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_applications_job_applicant"})
		mock.ExpectRollback()

		_, err := store.Create(context.Background(), 1, 7)
		assert.ErrorIs(t, err, types.ErrAlreadyApplied)
	})

	t.Run("wraps other failures as ErrUnavailable", func(t *testing.T) {
		gdb, mock := newTestDB(t)
		store := NewApplicationStore(gdb)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "applications"`).
			WillReturnError(&pq.Error{Code: "53300"})
		mock.ExpectRollback()

		_, err := store.Create(context.Background(), 1, 7)
		assert.ErrorIs(t, err, types.ErrUnavailable)
	})
}

func TestApplicationStoreFindByJobAndApplicant(t *testing.T) {
	t.Run("returns nil when absent", func(t *testing.T) {
		gdb, mock := newTestDB(t)
		store := NewApplicationStore(gdb)

		mock.ExpectQuery(`SELECT \* FROM "applications"`).
			WillReturnRows(sqlmock.NewRows(applicationColumns()))

		application, err := store.FindByJobAndApplicant(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.Nil(t, application)
	})

	t.Run("returns the record when present", func(t *testing.T) {
		gdb, mock := newTestDB(t)
		store := NewApplicationStore(gdb)

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "applications"`).
			WillReturnRows(sqlmock.NewRows(applicationColumns()).
				AddRow(11, now, now, nil, 1, 7, types.StatusPending))

		application, err := store.FindByJobAndApplicant(context.Background(), 1, 7)
		require.NoError(t, err)
		require.NotNil(t, application)
		assert.Equal(t, uint(11), application.ID)
		assert.Equal(t, types.StatusPending, application.Status)
	})
}

func TestApplicationStoreUpdateStatus(t *testing.T) {
	t.Run("missing application", func(t *testing.T) {
		gdb, mock := newTestDB(t)
		store := NewApplicationStore(gdb)

		mock.ExpectQuery(`SELECT \* FROM "applications"`).
			WillReturnRows(sqlmock.NewRows(applicationColumns()))

		_, err := store.UpdateStatus(context.Background(), 11, types.StatusAccepted)
		assert.ErrorIs(t, err, types.ErrApplicationNotFound)
	})

	t.Run("updates the status", func(t *testing.T) {
		gdb, mock := newTestDB(t)
		store := NewApplicationStore(gdb)

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "applications"`).
			WillReturnRows(sqlmock.NewRows(applicationColumns()).
				AddRow(11, now, now, nil, 1, 7, types.StatusPending))
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "role"}).
				AddRow(7, "Sam Seeker", "sam@example.com", types.RoleJobSeeker))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "applications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		application, err := store.UpdateStatus(context.Background(), 11, types.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, types.StatusAccepted, application.Status)
		assert.Equal(t, "sam@example.com", application.Applicant.Email)
	})
}
