package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/seatbook-api/internal/models"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
)

var userRowColumns = []string{"id", "username", "email", "full_name", "department", "role", "is_active", "default_work_days", "required_days_per_week", "created_at", "updated_at"}

func TestListForAutoBooking(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u1", "alice", "alice@example.com", "Alice", nil, string(models.RoleEmployee), true, "{1,3,5}", 3, now, now).
		AddRow("u2", "root", "root@example.com", "Root", "IT", string(models.RoleAdmin), true, "{}", 0, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id ASC")).WillReturnRows(rows)

	users, err := repo.ListForAutoBooking(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.WorkDays{time.Monday, time.Wednesday, time.Friday}, users[0].DefaultWorkDays)
	assert.Equal(t, 3, users[0].RequiredDaysPerWeek)
	assert.Nil(t, users[0].Department)
	assert.Empty(t, users[1].DefaultWorkDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u1", "alice", "alice@example.com", "Alice", nil, string(models.RoleEmployee), true, "{2,4}", 2, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ANY($1) ORDER BY id ASC")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	users, err := repo.FindByIDs(context.Background(), []string{"u1", "missing"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDsEmptySkipsQuery(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	users, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1 LIMIT 1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
