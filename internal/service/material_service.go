package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/opencampus/lms-api/internal/models"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
	"github.com/opencampus/lms-api/pkg/storage"
)

type materialStore interface {
	Create(ctx context.Context, material *models.CourseMaterial) error
	FindByID(ctx context.Context, id string) (*models.CourseMaterial, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseMaterial, error)
	Delete(ctx context.Context, id string) error
}

type ownedCourseResolver interface {
	RequireOwnedCourse(ctx context.Context, courseID, callerID string) (*models.Course, error)
}

type materialFileStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// MaterialUpload carries the submitted file, when the material type takes one.
type MaterialUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// AddMaterialRequest describes the add-material form fields.
type AddMaterialRequest struct {
	Title string `form:"title" json:"title" validate:"required,max=200"`
	Type  string `form:"material_type" json:"material_type" validate:"required"`
	URL   string `form:"url" json:"url"`
}

// materialPolicy fixes, per submitted type, whether a file or a URL is
// required, the allowed file extensions, and the stored variant.
type materialPolicy struct {
	stored       models.MaterialType
	requiresFile bool
	extensions   map[string]struct{}
}

var materialPolicies = map[string]materialPolicy{
	"pdf":          {stored: models.MaterialPDF, requiresFile: true, extensions: extSet(".pdf")},
	"image":        {stored: models.MaterialImage, requiresFile: true, extensions: extSet(".png", ".jpg", ".jpeg", ".gif")},
	"link":         {stored: models.MaterialLink},
	"video_url":    {stored: models.MaterialVideo},
	"video_upload": {stored: models.MaterialVideo, requiresFile: true, extensions: extSet(".mp4", ".webm", ".ogg")},
}

func extSet(exts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[e] = struct{}{}
	}
	return set
}

// MaterialServiceConfig bounds uploads.
type MaterialServiceConfig struct {
	MaxFileSize int64
}

// MaterialService manages material records and their backing files.
type MaterialService struct {
	repo      materialStore
	courses   ownedCourseResolver
	storage   materialFileStorage
	validator *validator.Validate
	logger    *zap.Logger
	cfg       MaterialServiceConfig
}

// NewMaterialService constructs the service with defaults.
func NewMaterialService(repo materialStore, courses ownedCourseResolver, fileStorage materialFileStorage, validate *validator.Validate, logger *zap.Logger, cfg MaterialServiceConfig) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 50 * 1024 * 1024
	}
	return &MaterialService{repo: repo, courses: courses, storage: fileStorage, validator: validate, logger: logger, cfg: cfg}
}

// List returns the materials attached to a course.
func (s *MaterialService) List(ctx context.Context, courseID string) ([]models.CourseMaterial, error) {
	materials, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	return materials, nil
}

// AddMaterial validates the submission against the per-type policy and
// persists the record. For file-backed types the file is written first and
// removed again when the record insert fails, so nothing is left orphaned.
func (s *MaterialService) AddMaterial(ctx context.Context, courseID, callerID string, req AddMaterialRequest, upload *MaterialUpload) (*models.CourseMaterial, error) {
	if _, err := s.courses.RequireOwnedCourse(ctx, courseID, callerID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	policy, ok := materialPolicies[req.Type]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidMaterial, fmt.Sprintf("unknown material type %q", req.Type))
	}

	material := &models.CourseMaterial{
		CourseID: courseID,
		Type:     policy.stored,
		Title:    req.Title,
	}

	if policy.requiresFile {
		filename, err := s.validateUpload(policy, upload)
		if err != nil {
			return nil, err
		}
		stored, err := s.storage.SaveStream(filename, upload.Content)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store material file")
		}
		material.FilePath = stored

		if err := s.repo.Create(ctx, material); err != nil {
			if removeErr := s.storage.Delete(stored); removeErr != nil {
				s.logger.Warn("failed to roll back material file", zap.String("path", stored), zap.Error(removeErr))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
		}
		return material, nil
	}

	if !isValidURL(req.URL) {
		return nil, appErrors.Clone(appErrors.ErrInvalidMaterial, "a valid URL is required for this material type")
	}
	material.URL = req.URL

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}
	return material, nil
}

// DeleteMaterial removes the record and its backing file. A file already
// missing from disk is tolerated.
func (s *MaterialService) DeleteMaterial(ctx context.Context, courseID, materialID, callerID string) error {
	if _, err := s.courses.RequireOwnedCourse(ctx, courseID, callerID); err != nil {
		return err
	}

	material, err := s.repo.FindByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if material.CourseID != courseID {
		return appErrors.Clone(appErrors.ErrNotFound, "material not found")
	}

	if material.FilePath != "" {
		if err := s.storage.Delete(material.FilePath); err != nil {
			s.logger.Warn("failed to remove material file", zap.String("path", material.FilePath), zap.Error(err))
		}
	}

	if err := s.repo.Delete(ctx, materialID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}
	return nil
}

func (s *MaterialService) validateUpload(policy materialPolicy, upload *MaterialUpload) (string, error) {
	if upload == nil || upload.Content == nil || upload.Filename == "" {
		return "", appErrors.Clone(appErrors.ErrInvalidMaterial, "a file is required for this material type")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return "", appErrors.Clone(appErrors.ErrInvalidMaterial, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, allowed := policy.extensions[ext]; !allowed {
		return "", appErrors.Clone(appErrors.ErrInvalidMaterial, fmt.Sprintf("file extension %q not allowed", ext))
	}

	// Prefix with a random ID so two uploads with the same name never clash.
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to name upload")
	}
	return hex.EncodeToString(buf) + "_" + storage.SanitizeFilename(upload.Filename), nil
}

func isValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
