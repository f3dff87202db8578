package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/lms-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "enrolled_at"}).
		AddRow("enr-1", "stu-1", "crs-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, course_id, enrolled_at FROM enrollments")).
		WithArgs("stu-1", "crs-1").
		WillReturnRows(rows)

	enrollment, err := repo.Find(context.Background(), "stu-1", "crs-1")
	require.NoError(t, err)
	require.Equal(t, "enr-1", enrollment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateGeneratesDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "stu-1", "crs-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment := &models.Enrollment{StudentID: "stu-1", CourseID: "crs-1"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.NotEmpty(t, enrollment.ID)
	require.False(t, enrollment.EnrolledAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "stu-1", "crs-1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: pq.ErrorCode("23505")})

	err := repo.Create(context.Background(), &models.Enrollment{StudentID: "stu-1", CourseID: "crs-1"})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteReportsAffected(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2")).
		WithArgs("stu-1", "crs-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	deleted, err := repo.Delete(context.Background(), "stu-1", "crs-1")
	require.NoError(t, err)
	require.True(t, deleted)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2")).
		WithArgs("stu-1", "crs-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	deleted, err = repo.Delete(context.Background(), "stu-1", "crs-1")
	require.NoError(t, err)
	require.False(t, deleted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListCoursesByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "instructor_id", "name", "description", "created_at"}).
		AddRow("crs-1", "ins-1", "Intro to CS", "", time.Now())
	mock.ExpectQuery("SELECT c.id, c.instructor_id, c.name, c.description, c.created_at\\s+FROM enrollments e").
		WithArgs("stu-1").
		WillReturnRows(rows)

	courses, err := repo.ListCoursesByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "Intro to CS", courses[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
