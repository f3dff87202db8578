package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/lms-api/internal/models"
)

func TestCourseRepositoryCreateGeneratesDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "ins-1", "Algebra", "numbers", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{InstructorID: "ins-1", Name: "Algebra", Description: "numbers"}
	require.NoError(t, repo.Create(context.Background(), course))
	require.NotEmpty(t, course.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindDetailByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows([]string{"id", "instructor_id", "name", "description", "created_at", "instructor_name"}).
		AddRow("crs-1", "ins-1", "Algebra", "", time.Now(), "prof")
	mock.ExpectQuery("SELECT c.id, c.instructor_id, c.name, c.description, c.created_at,\\s+u.username AS instructor_name").
		WithArgs("crs-1").
		WillReturnRows(rows)

	detail, err := repo.FindDetailByID(context.Background(), "crs-1")
	require.NoError(t, err)
	require.Equal(t, "prof", detail.InstructorName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListAvailableWithoutSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows([]string{"id", "instructor_id", "name", "description", "created_at"}).
		AddRow("crs-1", "ins-1", "Algebra", "", time.Now())
	mock.ExpectQuery("NOT EXISTS").
		WithArgs("stu-1").
		WillReturnRows(rows)

	courses, err := repo.ListAvailable(context.Background(), "stu-1", "")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListAvailableLowercasesSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(c.name) LIKE $2")).
		WithArgs("stu-1", "%algebra%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "instructor_id", "name", "description", "created_at"}))

	courses, err := repo.ListAvailable(context.Background(), "stu-1", "AlGeBrA")
	require.NoError(t, err)
	require.Empty(t, courses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT file_path FROM course_materials WHERE course_id = $1 AND file_path <> ''")).
		WithArgs("crs-1").
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow("uploads/a.pdf").AddRow("uploads/b.png"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE course_id = $1")).
		WithArgs("crs-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_materials WHERE course_id = $1")).
		WithArgs("crs-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("crs-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	filePaths, err := repo.DeleteCascade(context.Background(), "crs-1")
	require.NoError(t, err)
	require.Equal(t, []string{"uploads/a.pdf", "uploads/b.png"}, filePaths)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascadeMissingCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT file_path FROM course_materials")).
		WithArgs("crs-missing").
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE course_id = $1")).
		WithArgs("crs-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_materials WHERE course_id = $1")).
		WithArgs("crs-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("crs-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeleteCascade(context.Background(), "crs-missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
