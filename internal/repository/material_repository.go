package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/lms-api/internal/models"
)

// MaterialRepository handles persistence of course materials.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs the repository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create persists a new material record.
func (r *MaterialRepository) Create(ctx context.Context, material *models.CourseMaterial) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO course_materials (id, course_id, material_type, title, file_path, url, created_at)
        VALUES (:id, :course_id, :material_type, :title, :file_path, :url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// FindByID returns a material by its ID.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*models.CourseMaterial, error) {
	const query = `SELECT id, course_id, material_type, title, file_path, url, created_at
        FROM course_materials WHERE id = $1`
	var material models.CourseMaterial
	if err := r.db.GetContext(ctx, &material, query, id); err != nil {
		return nil, err
	}
	return &material, nil
}

// ListByCourse returns a course's materials in insertion order.
func (r *MaterialRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseMaterial, error) {
	const query = `SELECT id, course_id, material_type, title, file_path, url, created_at
        FROM course_materials WHERE course_id = $1 ORDER BY created_at ASC`
	var materials []models.CourseMaterial
	if err := r.db.SelectContext(ctx, &materials, query, courseID); err != nil {
		return nil, fmt.Errorf("list course materials: %w", err)
	}
	return materials, nil
}

// Delete removes a material record.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM course_materials WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}
