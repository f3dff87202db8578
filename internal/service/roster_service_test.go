package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/lms-api/internal/models"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
)

type mockRosterLister struct {
	byCourse map[string][]models.EnrollmentDetail
}

func (m *mockRosterLister) ListDetailByCourse(_ context.Context, courseID string) ([]models.EnrollmentDetail, error) {
	return m.byCourse[courseID], nil
}

func newRosterFixture() *RosterService {
	enrolledAt := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	lister := &mockRosterLister{byCourse: map[string][]models.EnrollmentDetail{
		"crs-1": {
			{
				Enrollment:   models.Enrollment{ID: "enr-1", StudentID: "stu-1", CourseID: "crs-1", EnrolledAt: enrolledAt},
				StudentName:  "alice",
				StudentEmail: "alice@example.com",
				CourseName:   "Algebra",
			},
		},
	}}
	owners := &mockOwnerResolver{owners: map[string]string{"crs-1": "ins-1"}}
	return NewRosterService(lister, owners, zap.NewNop())
}

func TestRosterServiceExportCSV(t *testing.T) {
	svc := newRosterFixture()

	out, err := svc.Export(context.Background(), "crs-1", "ins-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.Equal(t, "roster_crs-1.csv", out.Filename)

	body := string(out.Data)
	assert.True(t, strings.HasPrefix(body, "Username,Email,Enrolled At"))
	assert.Contains(t, body, "alice,alice@example.com,2026-02-10 09:30")
}

func TestRosterServiceExportDefaultsToCSV(t *testing.T) {
	svc := newRosterFixture()

	out, err := svc.Export(context.Background(), "crs-1", "ins-1", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
}

func TestRosterServiceExportPDF(t *testing.T) {
	svc := newRosterFixture()

	out, err := svc.Export(context.Background(), "crs-1", "ins-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "roster_crs-1.pdf", out.Filename)
	assert.True(t, strings.HasPrefix(string(out.Data), "%PDF"))
}

func TestRosterServiceExportUnknownFormat(t *testing.T) {
	svc := newRosterFixture()

	_, err := svc.Export(context.Background(), "crs-1", "ins-1", "xlsx")
	requireErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestRosterServiceExportForbiddenForNonOwner(t *testing.T) {
	svc := newRosterFixture()

	_, err := svc.Export(context.Background(), "crs-1", "ins-2", "csv")
	requireErrorCode(t, err, appErrors.ErrForbidden.Code)
}
