package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"echoboard/internal/model"
	"echoboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

var userColumns = []string{"id", "email", "full_name", "hashed_password", "country", "random_profile_color", "is_active", "created_at"}

func TestUserRepository_Register(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	user := &model.User{
		Email:          "a@x.com",
		FullName:       "Ada",
		HashedPassword: "hashed_password",
		Country:        "ES",
		IsActive:       true,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	welcomed := false
	err := userRepo.Register(context.Background(), user, func(u *model.User) error {
		welcomed = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, welcomed)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Register_DuplicateEmail(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := userRepo.Register(context.Background(), &model.User{Email: "a@x.com"}, nil)

	assert.ErrorIs(t, err, repository.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Register_WelcomeFailureRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)
	mailErr := errors.New("smtp unavailable")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	err := userRepo.Register(context.Background(), &model.User{Email: "a@x.com"}, func(*model.User) error {
		return mailErr
	})

	assert.ErrorIs(t, err, mailErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	email := "test@example.com"

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID.String(), email, "Test User", "hashed_password", "ES", 3, true, time.Now()))

	user, err := userRepo.FindByEmail(context.Background(), email)

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "Test User", user.FullName)
	assert.Equal(t, 3, user.RandomProfileColor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	user, err := userRepo.FindByEmail(context.Background(), "nonexistent@example.com")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WillReturnError(assert.AnError)

	user, err := userRepo.FindByEmail(context.Background(), "test@example.com")

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_Cascades(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	user := &model.User{ID: uuid.New(), Email: "a@x.com"}
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "projects" WHERE admin_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(projectID.String()))
	mock.ExpectExec(`DELETE FROM "tasks" WHERE project_id IN .*`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM "memberships" WHERE project_id IN .*`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "projects" WHERE id IN .*`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "memberships" WHERE member_id = .*`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "tasks" WHERE author_id = .*`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "tasks" SET "assigned_to_id"=.* WHERE assigned_to_id = .*`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "password_reset_tickets" WHERE user_email = .*`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "users" WHERE id = .*`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := userRepo.Delete(context.Background(), user)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
