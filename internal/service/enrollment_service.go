package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/opencampus/lms-api/internal/models"
	"github.com/opencampus/lms-api/internal/repository"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
)

type enrollmentRepository interface {
	Find(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, studentID, courseID string) (bool, error)
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService orchestrates the student enrollment workflow. Both
// enroll and unenroll are idempotent per (student, course) pair.
type EnrollmentService struct {
	repo    enrollmentRepository
	courses courseReader
	logger  *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, logger: logger}
}

// Enroll registers the student on the course. Enrolling twice is a no-op:
// the existing enrollment is returned unchanged.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if existing, err := s.repo.Find(ctx, studentID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		// A concurrent request won the insert; the unique constraint keeps
		// the pair single so fall back to the stored row.
		if errors.Is(err, repository.ErrDuplicate) {
			existing, findErr := s.repo.Find(ctx, studentID, courseID)
			if findErr != nil {
				return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
			}
			return existing, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	return enrollment, nil
}

// Unenroll removes the student's enrollment. Unenrolling when not enrolled
// succeeds as a no-op.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID string) error {
	deleted, err := s.repo.Delete(ctx, studentID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll")
	}
	if !deleted {
		s.logger.Debug("unenroll without enrollment",
			zap.String("student_id", studentID), zap.String("course_id", courseID))
	}
	return nil
}

// ListEnrolledCourses returns the courses the student is enrolled in.
func (s *EnrollmentService) ListEnrolledCourses(ctx context.Context, studentID string) ([]models.Course, error) {
	courses, err := s.repo.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}
	return courses, nil
}
