package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/opencampus/lms-api/internal/models"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
)

type catalogCourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error)
	ListAvailable(ctx context.Context, studentID, search string) ([]models.Course, error)
	DeleteCascade(ctx context.Context, courseID string) ([]string, error)
}

type catalogMaterialLister interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseMaterial, error)
}

type fileRemover interface {
	Delete(filename string) error
}

// CreateCourseRequest describes the course creation payload.
type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// CourseView bundles a course with its materials for the public detail page.
type CourseView struct {
	Course    models.CourseDetail     `json:"course"`
	Materials []models.CourseMaterial `json:"materials"`
}

// CatalogService orchestrates course workflows.
type CatalogService struct {
	courses   catalogCourseRepository
	materials catalogMaterialLister
	storage   fileRemover
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(courses catalogCourseRepository, materials catalogMaterialLister, storage fileRemover, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{courses: courses, materials: materials, storage: storage, validator: validate, logger: logger}
}

// CreateCourse registers a new course owned by the instructor.
func (s *CatalogService) CreateCourse(ctx context.Context, instructorID string, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		InstructorID: instructorID,
		Name:         req.Name,
		Description:  req.Description,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// ListByInstructor returns all courses owned by the instructor.
func (s *CatalogService) ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error) {
	courses, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListAvailable returns courses the student is not enrolled in. The search
// filter applies after the enrollment exclusion.
func (s *CatalogService) ListAvailable(ctx context.Context, studentID, search string) ([]models.Course, error) {
	courses, err := s.courses.ListAvailable(ctx, studentID, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list available courses")
	}
	return courses, nil
}

// GetCourseView returns the public course page content.
func (s *CatalogService) GetCourseView(ctx context.Context, courseID string) (*CourseView, error) {
	detail, err := s.courses.FindDetailByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	materials, err := s.materials.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load materials")
	}
	return &CourseView{Course: *detail, Materials: materials}, nil
}

// RequireOwnedCourse loads a course and verifies the caller owns it.
func (s *CatalogService) RequireOwnedCourse(ctx context.Context, courseID, callerID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.InstructorID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another instructor")
	}
	return course, nil
}

// DeleteCourse removes an owned course with its enrollments and materials in
// one transaction, then removes the backing files best-effort.
func (s *CatalogService) DeleteCourse(ctx context.Context, courseID, callerID string) error {
	if _, err := s.RequireOwnedCourse(ctx, courseID, callerID); err != nil {
		return err
	}

	filePaths, err := s.courses.DeleteCascade(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	for _, path := range filePaths {
		if err := s.storage.Delete(path); err != nil {
			s.logger.Warn("failed to remove material file", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}
