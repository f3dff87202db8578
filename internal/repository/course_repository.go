package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/lms-api/internal/models"
)

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO courses (id, instructor_id, name, description, created_at)
        VALUES (:id, :instructor_id, :name, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, instructor_id, name, description, created_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID returns a course with its instructor's name.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	const query = `SELECT c.id, c.instructor_id, c.name, c.description, c.created_at,
        u.username AS instructor_name
        FROM courses c
        JOIN users u ON u.id = c.instructor_id
        WHERE c.id = $1`
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByInstructor returns the instructor's courses, newest first.
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error) {
	const query = `SELECT id, instructor_id, name, description, created_at FROM courses
        WHERE instructor_id = $1 ORDER BY created_at DESC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor courses: %w", err)
	}
	return courses, nil
}

// ListAvailable returns courses the student is not enrolled in, optionally
// filtered by a case-insensitive substring match on the name. Exclusion is
// applied before the search filter.
func (r *CourseRepository) ListAvailable(ctx context.Context, studentID, search string) ([]models.Course, error) {
	query := `SELECT c.id, c.instructor_id, c.name, c.description, c.created_at FROM courses c
        WHERE NOT EXISTS (
            SELECT 1 FROM enrollments e WHERE e.course_id = c.id AND e.student_id = $1
        )`
	args := []interface{}{studentID}
	if search != "" {
		query += fmt.Sprintf(" AND LOWER(c.name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += " ORDER BY c.name ASC"

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list available courses: %w", err)
	}
	return courses, nil
}

// DeleteCascade removes a course together with its enrollments and material
// records inside one transaction, children before parent. It returns the
// file paths of the deleted materials so the caller can remove the backing
// files after commit.
func (r *CourseRepository) DeleteCascade(ctx context.Context, courseID string) ([]string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin course delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var filePaths []string
	const pathsQuery = `SELECT file_path FROM course_materials WHERE course_id = $1 AND file_path <> ''`
	if err := tx.SelectContext(ctx, &filePaths, pathsQuery, courseID); err != nil {
		return nil, fmt.Errorf("collect material files: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = $1`, courseID); err != nil {
		return nil, fmt.Errorf("delete course enrollments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_materials WHERE course_id = $1`, courseID); err != nil {
		return nil, fmt.Errorf("delete course materials: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return nil, fmt.Errorf("delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return nil, sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit course delete: %w", err)
	}
	return filePaths, nil
}
