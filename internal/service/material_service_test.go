package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/lms-api/internal/models"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
)

type mockMaterialStore struct {
	materials map[string]*models.CourseMaterial
	createErr error
}

func newMockMaterialStore() *mockMaterialStore {
	return &mockMaterialStore{materials: make(map[string]*models.CourseMaterial)}
}

func (m *mockMaterialStore) Create(_ context.Context, material *models.CourseMaterial) error {
	if m.createErr != nil {
		return m.createErr
	}
	material.ID = "mat-" + material.Title
	m.materials[material.ID] = material
	return nil
}

func (m *mockMaterialStore) FindByID(_ context.Context, id string) (*models.CourseMaterial, error) {
	if material, ok := m.materials[id]; ok {
		return material, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMaterialStore) ListByCourse(_ context.Context, courseID string) ([]models.CourseMaterial, error) {
	var materials []models.CourseMaterial
	for _, material := range m.materials {
		if material.CourseID == courseID {
			materials = append(materials, *material)
		}
	}
	return materials, nil
}

func (m *mockMaterialStore) Delete(_ context.Context, id string) error {
	delete(m.materials, id)
	return nil
}

// mockOwnerResolver grants ownership per course the way the catalog does.
type mockOwnerResolver struct {
	owners map[string]string
}

func (m *mockOwnerResolver) RequireOwnedCourse(_ context.Context, courseID, callerID string) (*models.Course, error) {
	owner, ok := m.owners[courseID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if owner != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another instructor")
	}
	return &models.Course{ID: courseID, InstructorID: owner}, nil
}

type mockFileStorage struct {
	saved   map[string]string
	deleted []string
}

func newMockFileStorage() *mockFileStorage {
	return &mockFileStorage{saved: make(map[string]string)}
}

func (m *mockFileStorage) SaveStream(filename string, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.saved[filename] = string(content)
	return filename, nil
}

func (m *mockFileStorage) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	delete(m.saved, filename)
	return nil
}

func newMaterialFixture() (*MaterialService, *mockMaterialStore, *mockFileStorage) {
	store := newMockMaterialStore()
	files := newMockFileStorage()
	owners := &mockOwnerResolver{owners: map[string]string{"crs-1": "ins-1"}}
	svc := NewMaterialService(store, owners, files, nil, zap.NewNop(), MaterialServiceConfig{MaxFileSize: 1024})
	return svc, store, files
}

func pdfUpload(name, content string) *MaterialUpload {
	return &MaterialUpload{Filename: name, Size: int64(len(content)), Content: strings.NewReader(content)}
}

func TestMaterialServiceAddPDF(t *testing.T) {
	svc, store, files := newMaterialFixture()

	material, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Syllabus", Type: "pdf"},
		pdfUpload("My Syllabus (v2).pdf", "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, models.MaterialPDF, material.Type)
	assert.Empty(t, material.URL)
	require.NotEmpty(t, material.FilePath)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}_My_Syllabus_v2_\.pdf$`), material.FilePath)
	assert.Contains(t, files.saved, material.FilePath)
	assert.Contains(t, store.materials, material.ID)
}

func TestMaterialServiceAddRejectsWrongExtension(t *testing.T) {
	svc, store, files := newMaterialFixture()

	_, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Notes", Type: "pdf"},
		pdfUpload("notes.exe", "MZ"))
	requireErrorCode(t, err, appErrors.ErrInvalidMaterial.Code)
	assert.Empty(t, store.materials)
	assert.Empty(t, files.saved)
}

func TestMaterialServiceAddRejectsOversizedFile(t *testing.T) {
	svc, store, _ := newMaterialFixture()

	upload := pdfUpload("big.pdf", "x")
	upload.Size = 4096
	_, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Big", Type: "pdf"}, upload)
	requireErrorCode(t, err, appErrors.ErrInvalidMaterial.Code)
	assert.Empty(t, store.materials)
}

func TestMaterialServiceAddRequiresFile(t *testing.T) {
	svc, _, _ := newMaterialFixture()

	_, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Syllabus", Type: "pdf"}, nil)
	requireErrorCode(t, err, appErrors.ErrInvalidMaterial.Code)
}

func TestMaterialServiceAddRejectsUnknownType(t *testing.T) {
	svc, _, _ := newMaterialFixture()

	_, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Notes", Type: "archive"}, nil)
	requireErrorCode(t, err, appErrors.ErrInvalidMaterial.Code)
}

func TestMaterialServiceVideoURLStoredAsVideo(t *testing.T) {
	svc, _, files := newMaterialFixture()

	material, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Lecture 1", Type: "video_url", URL: "https://videos.example.com/lec1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MaterialVideo, material.Type)
	assert.Equal(t, "https://videos.example.com/lec1", material.URL)
	assert.Empty(t, material.FilePath)
	assert.Empty(t, files.saved)
}

func TestMaterialServiceVideoUploadStoredAsVideo(t *testing.T) {
	svc, _, files := newMaterialFixture()

	material, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Lecture 2", Type: "video_upload"},
		pdfUpload("lecture2.mp4", "ftyp"))
	require.NoError(t, err)
	assert.Equal(t, models.MaterialVideo, material.Type)
	assert.Empty(t, material.URL)
	assert.Contains(t, files.saved, material.FilePath)
}

func TestMaterialServiceLinkRequiresValidURL(t *testing.T) {
	svc, _, _ := newMaterialFixture()

	for _, raw := range []string{"", "not a url", "ftp://example.com/file", "javascript:alert(1)"} {
		_, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
			AddMaterialRequest{Title: "Reading", Type: "link", URL: raw}, nil)
		requireErrorCode(t, err, appErrors.ErrInvalidMaterial.Code)
	}
}

func TestMaterialServiceAddRollsBackFileOnInsertFailure(t *testing.T) {
	svc, store, files := newMaterialFixture()
	store.createErr = errors.New("insert failed")

	_, err := svc.AddMaterial(context.Background(), "crs-1", "ins-1",
		AddMaterialRequest{Title: "Syllabus", Type: "pdf"},
		pdfUpload("syllabus.pdf", "%PDF-1.4"))
	requireErrorCode(t, err, appErrors.ErrInternal.Code)
	assert.Empty(t, files.saved)
	require.Len(t, files.deleted, 1)
}

func TestMaterialServiceAddForbiddenForNonOwner(t *testing.T) {
	svc, store, _ := newMaterialFixture()

	_, err := svc.AddMaterial(context.Background(), "crs-1", "ins-2",
		AddMaterialRequest{Title: "Syllabus", Type: "pdf"},
		pdfUpload("syllabus.pdf", "%PDF-1.4"))
	requireErrorCode(t, err, appErrors.ErrForbidden.Code)
	assert.Empty(t, store.materials)
}

func TestMaterialServiceDeleteRemovesFile(t *testing.T) {
	svc, store, files := newMaterialFixture()
	store.materials["mat-1"] = &models.CourseMaterial{
		ID:       "mat-1",
		CourseID: "crs-1",
		Type:     models.MaterialPDF,
		FilePath: "abc_syllabus.pdf",
	}

	require.NoError(t, svc.DeleteMaterial(context.Background(), "crs-1", "mat-1", "ins-1"))
	assert.Empty(t, store.materials)
	assert.Equal(t, []string{"abc_syllabus.pdf"}, files.deleted)
}

func TestMaterialServiceDeleteRejectsForeignCourse(t *testing.T) {
	svc, store, _ := newMaterialFixture()
	svc.courses.(*mockOwnerResolver).owners["crs-2"] = "ins-1"
	store.materials["mat-1"] = &models.CourseMaterial{ID: "mat-1", CourseID: "crs-1"}

	// The material belongs to crs-1, so addressing it through crs-2 fails.
	err := svc.DeleteMaterial(context.Background(), "crs-2", "mat-1", "ins-1")
	requireErrorCode(t, err, appErrors.ErrNotFound.Code)
	assert.Contains(t, store.materials, "mat-1")
}
